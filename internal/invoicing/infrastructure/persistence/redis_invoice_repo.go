package persistence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

// DefaultRedisKeyPrefix namespaces invoice keys.
const DefaultRedisKeyPrefix = "fakturering"

// RedisInvoiceRepository stores each invoice as a hash and keeps creation
// order in a sorted set. It backs the memory variant when several
// processes must share state, so ids are UUIDs like the in-process store.
type RedisInvoiceRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisInvoiceRepository(client *redis.Client, prefix string) *RedisInvoiceRepository {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisInvoiceRepository{client: client, prefix: prefix}
}

func (r *RedisInvoiceRepository) key(id invoice.ID) string {
	return r.prefix + ":invoice:" + id.String()
}

func (r *RedisInvoiceRepository) indexKey() string {
	return r.prefix + ":invoices"
}

func (r *RedisInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	id := invoice.ID(uuid.NewString())

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key(id), map[string]any{
			"subscription_id": strconv.FormatInt(inv.SubscriptionID, 10),
			"customer_id":     strconv.FormatInt(inv.CustomerID, 10),
			"amount":          strconv.FormatFloat(inv.Amount, 'g', -1, 64),
			"due_date":        inv.DueDate,
			"status":          inv.Status.String(),
			"created_by":      inv.CreatedBy,
			"created_at":      inv.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{
			Score:  float64(inv.CreatedAt.UnixMicro()),
			Member: id.String(),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("store invoice: %w", err)
	}
	inv.ID = id
	return nil
}

func (r *RedisInvoiceRepository) FindByID(ctx context.Context, id invoice.ID) (*invoice.Invoice, error) {
	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, err
	}
	return decodeRedisInvoice(id, fields)
}

// UpdateStatus rewrites the status under WATCH so a concurrent write to the
// same invoice aborts with redis.TxFailedErr instead of being lost.
func (r *RedisInvoiceRepository) UpdateStatus(ctx context.Context, id invoice.ID, status invoice.Status) (*invoice.Invoice, error) {
	if !status.Valid() {
		return nil, invoice.ErrInvalidStatus
	}

	key := r.key(id)
	var updated *invoice.Invoice
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		inv, err := decodeRedisInvoice(id, fields)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "status", status.String())
			return nil
		})
		if err != nil {
			return err
		}
		inv.Status = status
		updated = inv
		return nil
	}, key)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *RedisInvoiceRepository) List(ctx context.Context) ([]*invoice.Invoice, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.key(invoice.ID(id)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invoices := make([]*invoice.Invoice, 0, len(ids))
	for i, cmd := range cmds {
		inv, err := decodeRedisInvoice(invoice.ID(ids[i]), cmd.Val())
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func decodeRedisInvoice(id invoice.ID, fields map[string]string) (*invoice.Invoice, error) {
	if len(fields) == 0 {
		return nil, invoice.ErrInvoiceNotFound
	}

	inv := &invoice.Invoice{
		ID:        id,
		DueDate:   fields["due_date"],
		CreatedBy: fields["created_by"],
	}

	var err error
	if inv.SubscriptionID, err = strconv.ParseInt(fields["subscription_id"], 10, 64); err != nil {
		return nil, fmt.Errorf("decode invoice %s subscription_id: %w", id, err)
	}
	if inv.CustomerID, err = strconv.ParseInt(fields["customer_id"], 10, 64); err != nil {
		return nil, fmt.Errorf("decode invoice %s customer_id: %w", id, err)
	}
	if inv.Amount, err = strconv.ParseFloat(fields["amount"], 64); err != nil {
		return nil, fmt.Errorf("decode invoice %s amount: %w", id, err)
	}
	if inv.Status, err = invoice.ParseStatus(fields["status"]); err != nil {
		return nil, err
	}
	if inv.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"]); err != nil {
		return nil, fmt.Errorf("decode invoice %s created_at: %w", id, err)
	}
	return inv, nil
}
