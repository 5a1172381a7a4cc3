package distribute

import "github.com/linedeck/linedeck/internal/content"

// Notifier delivers newly created content items to subscribed dashboards.
// The push implementation is Hub; poll deployments use NopNotifier and let
// dashboards read the snapshot endpoint on their own schedule.
type Notifier interface {
	Notify(item content.Item)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(content.Item) {}
