// Package shared holds helpers used across packages that belong to no
// single layer.
//
// The testutil subpackage captures slog output in tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewIngestor(cfg, nil, nil, logger)
//	...
//	assert.True(t, logs.ContainsMessage("Sheet loaded"))
package shared
