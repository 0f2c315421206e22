package item

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const statusApproved = "APPROVED"

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, filter Filter) ([]*Item, error)
	Update(ctx context.Context, it *Item) error

	// LastBookings returns, per item, the approved booking that started before now with the latest end.
	LastBookings(ctx context.Context, itemIDs []string, now time.Time) (map[string]*BookingBrief, error)
	// NextBookings returns, per item, the earliest approved booking starting after now.
	NextBookings(ctx context.Context, itemIDs []string, now time.Time) (map[string]*BookingBrief, error)
	// HasFinishedBooking reports whether bookerID holds an approved booking of itemID that ended before now.
	HasFinishedBooking(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)

	CreateComment(ctx context.Context, c *Comment) error
	// Comments returns comments grouped by item, oldest first.
	Comments(ctx context.Context, itemIDs []string) (map[string][]*Comment, error)

	CreatePhoto(ctx context.Context, p *Photo) error
	GetPhoto(ctx context.Context, itemID, photoID string) (*Photo, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var itemColumns = []string{"id", "owner_id", "name", "description", "available", "request_id", "created_at"}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.Available, &it.RequestID, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	query, args, err := psql.Insert("public.items").
		Columns("owner_id", "name", "description", "available", "request_id").
		Values(it.OwnerID, it.Name, it.Description, it.Available, it.RequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&it.ID, &it.CreatedAt); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	query, args, err := psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Item, error) {
	query := psql.Select(itemColumns...).From("public.items")

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.Text != "" {
		pattern := "%" + filter.Text + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	if filter.AvailableOnly {
		query = query.Where(squirrel.Eq{"available": true})
	}
	if len(filter.RequestIDs) > 0 {
		query = query.Where(squirrel.Eq{"request_id": filter.RequestIDs})
	}

	query = query.OrderBy("created_at ASC", "id ASC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64((page - 1) * filter.PageSize))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("available", it.Available).
		Where(squirrel.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// nearestBookings picks one approved booking per item using DISTINCT ON and the given ordering.
func (r *pgxRepository) nearestBookings(ctx context.Context, itemIDs []string, cond squirrel.Sqlizer, order string) (map[string]*BookingBrief, error) {
	result := make(map[string]*BookingBrief, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	sql, args, err := psql.Select("DISTINCT ON (item_id) id", "item_id", "booker_id", "start_time", "end_time").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemIDs}).
		Where(squirrel.Eq{"status": statusApproved}).
		Where(cond).
		OrderBy("item_id", order).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build nearest bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("nearest bookings failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b BookingBrief
		if err := rows.Scan(&b.ID, &b.ItemID, &b.BookerID, &b.StartTime, &b.EndTime); err != nil {
			return nil, fmt.Errorf("scan booking brief failed: %w", err)
		}
		result[b.ItemID] = &b
	}
	return result, rows.Err()
}

func (r *pgxRepository) LastBookings(ctx context.Context, itemIDs []string, now time.Time) (map[string]*BookingBrief, error) {
	return r.nearestBookings(ctx, itemIDs, squirrel.Lt{"start_time": now}, "end_time DESC")
}

func (r *pgxRepository) NextBookings(ctx context.Context, itemIDs []string, now time.Time) (map[string]*BookingBrief, error) {
	return r.nearestBookings(ctx, itemIDs, squirrel.Gt{"start_time": now}, "start_time ASC")
}

func (r *pgxRepository) HasFinishedBooking(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID, "status": statusApproved}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) CreateComment(ctx context.Context, c *Comment) error {
	query, args, err := psql.Insert("public.comments").
		Columns("item_id", "author_id", "text", "created_at").
		Values(c.ItemID, c.AuthorID, c.Text, c.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Comments(ctx context.Context, itemIDs []string) (map[string][]*Comment, error) {
	result := make(map[string][]*Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	sql, args, err := psql.Select("c.id", "c.item_id", "c.author_id", "u.name", "c.text", "c.created_at").
		From("public.comments c").
		Join("public.users u ON c.author_id = u.id").
		Where(squirrel.Eq{"c.item_id": itemIDs}).
		OrderBy("c.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		result[c.ItemID] = append(result[c.ItemID], &c)
	}
	return result, rows.Err()
}

func (r *pgxRepository) CreatePhoto(ctx context.Context, p *Photo) error {
	query, args, err := psql.Insert("public.item_photos").
		Columns("id", "item_id", "filename", "content_type", "size", "storage_key", "thumbnail_key", "created_at").
		Values(p.ID, p.ItemID, p.Filename, p.ContentType, p.Size, p.StorageKey, p.ThumbnailKey, p.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create photo query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create photo failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetPhoto(ctx context.Context, itemID, photoID string) (*Photo, error) {
	query, args, err := psql.Select("id", "item_id", "filename", "content_type", "size", "storage_key", "thumbnail_key", "created_at").
		From("public.item_photos").
		Where(squirrel.Eq{"id": photoID, "item_id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get photo query failed: %w", err)
	}

	var p Photo
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.ItemID, &p.Filename, &p.ContentType, &p.Size, &p.StorageKey, &p.ThumbnailKey, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("get photo failed: %w", err)
	}
	return &p, nil
}
