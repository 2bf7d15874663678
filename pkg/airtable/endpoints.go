package airtable

import "net/url"

// Paths are relative to the client's base URL (DefaultBaseURL unless
// overridden). Meta endpoints describe workspaces; record endpoints address
// a table inside a base by id or URL-escaped name.

func whoamiPath() string {
	return "/meta/whoami"
}

func basesPath() string {
	return "/meta/bases"
}

func baseSchemaPath(baseID string) string {
	return "/meta/bases/" + baseID + "/tables"
}

func recordsPath(baseID, table string) string {
	return "/" + baseID + "/" + url.PathEscape(table)
}

func recordPath(baseID, table, recordID string) string {
	return recordsPath(baseID, table) + "/" + recordID
}
