package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/firezonehub/backend/internal/models"
)

const DefaultIndex = "comandas"

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, err
	}

	res, err := client.Info()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		log.Printf("elasticsearch error response: %s", body)
		return nil, fmt.Errorf("elasticsearch: %s", res.Status())
	}

	return client, nil
}

// Indexer mirrors item writes into the search index. A nil Indexer (or nil
// client) disables search without touching the CRUD path.
type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func (ix *Indexer) Enabled() bool {
	return ix != nil && ix.ES != nil
}

func (ix *Indexer) IndexItem(ctx context.Context, item models.Item) error {
	if !ix.Enabled() {
		return nil
	}

	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	res, err := ix.ES.Index(
		ix.Index,
		bytes.NewReader(data),
		ix.ES.Index.WithDocumentID(strconv.Itoa(item.ID)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index failed: %s", res.Status())
	}
	return nil
}

func (ix *Indexer) DeleteItem(ctx context.Context, itemID int) error {
	if !ix.Enabled() {
		return nil
	}

	res, err := ix.ES.Delete(
		ix.Index,
		strconv.Itoa(itemID),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete failed: %s", res.Status())
	}
	return nil
}

// DeleteByRoom drops every indexed item of a room (room deletion) or of one
// user in a room (bulk clear) when userID is non-empty.
func (ix *Indexer) DeleteByRoom(ctx context.Context, roomID, userID string) error {
	if !ix.Enabled() {
		return nil
	}

	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"room_id": roomID}},
	}
	if userID != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"user_id": userID},
		})
	}
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	res, err := ix.ES.DeleteByQuery(
		[]string{ix.Index},
		&buf,
		ix.ES.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: delete_by_query failed: %s", res.Status())
	}
	return nil
}

// Search looks for items in a room by name or owner, fuzzy-matched.
func Search(ctx context.Context, es *elasticsearch.Client, index, roomID, query string, from, size int) (int64, []models.Item, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"nome^2", "user_name"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"room_id": roomID},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: query failed: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}
