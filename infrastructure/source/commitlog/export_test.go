package commitlog

// SortByVersionDesc exports sortByVersionDesc for testing.
var SortByVersionDesc = sortByVersionDesc //nolint:gochecknoglobals // test export
