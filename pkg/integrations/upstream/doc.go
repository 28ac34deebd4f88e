// Package upstream fetches the community-maintained plugin list that
// seeds the record set.
//
// The list is a single JSON document served from a static URL. Every
// successful fetch is mirrored to a local fallback file; when the remote
// fetch fails, the fallback is read instead so a sync run can still
// proceed with the last known list.
package upstream
