package ranking

import (
	"sort"

	"github.com/firezonehub/backend/internal/models"
)

type Entry struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Total float64       `json:"total"`
	Items []models.Item `json:"items"`
}

// Aggregate groups a room's items by owning user and ranks users by how much
// they have on the tab, highest first. The name shown for a user is taken
// from the first item encountered for them. The sort is stable so equal
// totals keep encounter order and the ranking does not flicker between
// refetches.
func Aggregate(items []models.Item) []Entry {
	byUser := make(map[string]int)
	entries := make([]Entry, 0)

	for _, item := range items {
		idx, ok := byUser[item.UserID]
		if !ok {
			idx = len(entries)
			byUser[item.UserID] = idx
			entries = append(entries, Entry{
				ID:    item.UserID,
				Name:  item.UserName,
				Items: make([]models.Item, 0, 4),
			})
		}
		entries[idx].Total += item.Total()
		entries[idx].Items = append(entries[idx].Items, item)
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Total > entries[b].Total
	})

	return entries
}
