package sqlite

// Schema DDL for a container file. Every group is a row of groups keyed by
// its slash-separated path; the root group is "/".
const (
	createGroups = `CREATE TABLE groups (
    path TEXT PRIMARY KEY,
    parent TEXT,
    name TEXT NOT NULL
);`

	createAttributes = `CREATE TABLE attributes (
    path TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (path, key),
    FOREIGN KEY (path) REFERENCES groups(path) ON DELETE CASCADE
);`

	createDatasets = `CREATE TABLE datasets (
    path TEXT NOT NULL,
    name TEXT NOT NULL,
    data BLOB NOT NULL,
    PRIMARY KEY (path, name),
    FOREIGN KEY (path) REFERENCES groups(path) ON DELETE CASCADE
);`
)

// Index DDL for child enumeration.
const (
	idxGroupsParent = `CREATE INDEX idx_groups_parent ON groups(parent, name);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createGroups,
	createAttributes,
	createDatasets,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxGroupsParent,
}

// rootPath is the path of the root group.
const rootPath = "/"
