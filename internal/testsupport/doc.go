// Package testsupport provides shared helpers for package tests: temp-dir
// backed configurations and scriptable provider stubs.
package testsupport
