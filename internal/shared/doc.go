// Package shared holds code used across packages that belongs to no single
// stage of the pipeline.
//
// The testutil subpackage provides the sample source files every package
// tests against and a slog handler that captures records for assertions:
//
//	func TestSomething(t *testing.T) {
//	    paths := testutil.WriteFixtures(t, t.TempDir())
//	    logger, handler := testutil.NewTestLogger(t)
//	    ...
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
