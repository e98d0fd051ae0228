// Package tandem contains the collaborative task-list services: lists,
// tasks, collaboration membership, and the activity log. Services issue
// document-store mutations and, on success, append an activity record as
// a second independent call; they also expose live snapshot views over
// filtered slices of the store.
package tandem

// Store collection names.
const (
	collectionLists      = "lists"
	collectionTasks      = "tasks"
	collectionActivities = "activities"
	collectionUsers      = "users"
)
