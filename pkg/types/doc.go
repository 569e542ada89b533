// Package types defines the storage capability contracts every engine
// implements, the generic Collection contract, the Config used to open a
// root, the DataType/Value model for section properties, and the standard
// error taxonomy shared by all pandora packages.
//
// Graph algorithms in pkg/pandora are written against these contracts only,
// so they run unmodified on the container-file and directory-tree engines.
package types
