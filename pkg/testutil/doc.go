// Package testutil provides utilities for testing confguard components.
//
// Key components:
//   - TestProject: declarative builder for a project dir plus storage root
//   - FaultyFS: types.FS wrapper that fails chosen operations on chosen paths
//   - MockProjectStore: testify mock of types.ProjectStore
//
// Engine tests run against real temp directories because guarding is all
// about symlinks and renames; config tests use afero's MemMapFs instead.
package testutil
