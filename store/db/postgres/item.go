package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/hrygo/tastefeed/store"
)

const itemFields = `id, uid, name, description, category, price, currency, image_url, external_id, tags, embedding::text, created_ts, updated_ts`

// CreateItem inserts a new catalog item.
func (d *DB) CreateItem(ctx context.Context, create *store.Item) (*store.Item, error) {
	now := time.Now().Unix()
	tags, err := json.Marshal(create.Tags)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal tags")
	}

	stmt := `
		INSERT INTO item (uid, name, description, category, price, currency, image_url, external_id, tags, embedding, created_ts, updated_ts)
		VALUES (` + placeholders(12) + `)
		RETURNING id, created_ts, updated_ts
	`

	var embedding any
	if len(create.Embedding) > 0 {
		embedding = pgvector.NewVector(create.Embedding)
	}

	err = d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.Name,
		create.Description,
		create.Category,
		create.Price,
		create.Currency,
		create.ImageURL,
		create.ExternalID,
		string(tags),
		embedding,
		now,
		now,
	).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create item")
	}

	return create, nil
}

// ListItems lists items matching the find condition in catalog order.
func (d *DB) ListItems(ctx context.Context, find *store.FindItem) ([]*store.Item, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.Category != nil {
		where, args = append(where, "category = "+placeholder(len(args)+1)), append(args, *find.Category)
	}

	query := `
		SELECT ` + itemFields + `
		FROM item
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id ASC
	`
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}
	defer rows.Close()

	return scanItems(rows)
}

// DeleteItem deletes an item by id.
func (d *DB) DeleteItem(ctx context.Context, id int32) error {
	stmt := `DELETE FROM item WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete item")
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.Errorf("item %d not found", id)
	}
	return nil
}

// CountItems counts all catalog items.
func (d *DB) CountItems(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM item`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count items")
	}
	return count, nil
}

// UpdateItemEmbedding updates the embedding vector for an item.
func (d *DB) UpdateItemEmbedding(ctx context.Context, id int32, embedding []float32) error {
	stmt := `UPDATE item SET embedding = ` + placeholder(1) + `, updated_ts = ` + placeholder(2) + ` WHERE id = ` + placeholder(3)
	result, err := d.db.ExecContext(ctx, stmt, pgvector.NewVector(embedding), time.Now().Unix(), id)
	if err != nil {
		return errors.Wrap(err, "failed to update item embedding")
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.Errorf("item %d not found", id)
	}
	return nil
}

// ListCandidateItems fetches up to limit items outside the excluded set, in
// stable catalog order.
func (d *DB) ListCandidateItems(ctx context.Context, excludeIDs []int32, limit int) ([]*store.Item, error) {
	query := `
		SELECT ` + itemFields + `
		FROM item
		WHERE NOT (id = ANY(` + placeholder(1) + `))
		ORDER BY id ASC
		LIMIT ` + placeholder(2)

	rows, err := d.db.QueryContext(ctx, query, pq.Array(excludeIDs), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list candidate items")
	}
	defer rows.Close()

	return scanItems(rows)
}

// FindItemsWithoutEmbedding finds items that have no embedding yet.
func (d *DB) FindItemsWithoutEmbedding(ctx context.Context, limit int) ([]*store.Item, error) {
	query := `
		SELECT ` + itemFields + `
		FROM item
		WHERE embedding IS NULL
		ORDER BY created_ts DESC
		LIMIT ` + placeholder(1)

	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find items without embedding")
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]*store.Item, error) {
	list := []*store.Item{}
	for rows.Next() {
		var item store.Item
		var tagsRaw string
		var embeddingRaw sql.NullString

		err := rows.Scan(
			&item.ID,
			&item.UID,
			&item.Name,
			&item.Description,
			&item.Category,
			&item.Price,
			&item.Currency,
			&item.ImageURL,
			&item.ExternalID,
			&tagsRaw,
			&embeddingRaw,
			&item.CreatedTs,
			&item.UpdatedTs,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan item")
		}

		if tagsRaw != "" {
			if err := json.Unmarshal([]byte(tagsRaw), &item.Tags); err != nil {
				return nil, errors.Wrap(err, "failed to unmarshal tags")
			}
		}
		// A vector that fails to parse stays nil, the engine treats it as absent.
		if embeddingRaw.Valid {
			item.Embedding = store.ParseVector(embeddingRaw.String)
		}

		list = append(list, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
