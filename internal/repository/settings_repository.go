package repository

import (
	"context"
	"errors"
	"fmt"

	"cardapio/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// settingsRepository implements SettingsRepository using PostgreSQL.
type settingsRepository struct {
	pool    *pgxpool.Pool
	storeID string
	logger  zerolog.Logger
}

// NewSettingsRepository creates a settings repository for the single store row.
func NewSettingsRepository(pool *pgxpool.Pool, logger zerolog.Logger) SettingsRepository {
	return &settingsRepository{
		pool:    pool,
		storeID: model.DefaultStoreID,
		logger:  logger.With().Str("repository", "settings").Logger(),
	}
}

// Load returns the store settings, or nil when the store row does not exist yet.
func (r *settingsRepository) Load(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, address, city, state, phone, whatsapp, instagram, about,
		       pix_key, admin_password_hash, updated_at
		FROM stores
		WHERE id = $1
	`, r.storeID).Scan(
		&s.Store.ID,
		&s.Store.Name,
		&s.Store.Address,
		&s.Store.City,
		&s.Store.State,
		&s.Store.Phone,
		&s.Store.WhatsApp,
		&s.Store.Instagram,
		&s.Store.About,
		&s.Store.PixKey,
		&s.Store.AdminPasswordHash,
		&s.Store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Msg("store not initialised")
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query store")
		return nil, fmt.Errorf("failed to query store: %w", err)
	}

	// The three lists are independent; fetch them in one round trip.
	batch := &pgx.Batch{}
	batch.Queue(`SELECT day, open_time, close_time, closed FROM store_hours WHERE store_id = $1 ORDER BY position`, r.storeID)
	batch.Queue(`SELECT name FROM payment_methods WHERE store_id = $1 ORDER BY position`, r.storeID)
	batch.Queue(`SELECT neighborhood, fee FROM delivery_fees WHERE store_id = $1 ORDER BY position`, r.storeID)

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	hourRows, err := results.Query()
	if err != nil {
		return nil, r.wrap(err, "failed to query store hours")
	}
	s.Hours, err = pgx.CollectRows(hourRows, func(row pgx.CollectableRow) (model.StoreHour, error) {
		var h model.StoreHour
		err := row.Scan(&h.Day, &h.Open, &h.Close, &h.Closed)
		return h, err
	})
	if err != nil {
		return nil, r.wrap(err, "failed to scan store hours")
	}

	methodRows, err := results.Query()
	if err != nil {
		return nil, r.wrap(err, "failed to query payment methods")
	}
	s.PaymentMethods, err = pgx.CollectRows(methodRows, pgx.RowTo[string])
	if err != nil {
		return nil, r.wrap(err, "failed to scan payment methods")
	}

	feeRows, err := results.Query()
	if err != nil {
		return nil, r.wrap(err, "failed to query delivery fees")
	}
	s.DeliveryFees, err = pgx.CollectRows(feeRows, func(row pgx.CollectableRow) (model.DeliveryFee, error) {
		var f model.DeliveryFee
		err := row.Scan(&f.Neighborhood, &f.Fee)
		return f, err
	})
	if err != nil {
		return nil, r.wrap(err, "failed to scan delivery fees")
	}

	return &s, nil
}

// Save upserts the store profile and replaces its lists in one transaction.
func (r *settingsRepository) Save(ctx context.Context, settings *model.Settings) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	st := settings.Store
	_, err = tx.Exec(ctx, `
		INSERT INTO stores (id, name, address, city, state, phone, whatsapp, instagram, about, pix_key, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			phone = EXCLUDED.phone,
			whatsapp = EXCLUDED.whatsapp,
			instagram = EXCLUDED.instagram,
			about = EXCLUDED.about,
			pix_key = EXCLUDED.pix_key,
			updated_at = NOW()
	`, r.storeID, st.Name, st.Address, st.City, st.State, st.Phone, st.WhatsApp, st.Instagram, st.About, st.PixKey)
	if err != nil {
		return r.wrap(err, "failed to save store")
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM store_hours WHERE store_id = $1`, r.storeID)
	batch.Queue(`DELETE FROM payment_methods WHERE store_id = $1`, r.storeID)
	batch.Queue(`DELETE FROM delivery_fees WHERE store_id = $1`, r.storeID)
	for i, h := range settings.Hours {
		batch.Queue(`INSERT INTO store_hours (store_id, day, open_time, close_time, closed, position) VALUES ($1, $2, $3, $4, $5, $6)`,
			r.storeID, h.Day, h.Open, h.Close, h.Closed, i)
	}
	for i, m := range settings.PaymentMethods {
		batch.Queue(`INSERT INTO payment_methods (store_id, name, position) VALUES ($1, $2, $3)`, r.storeID, m, i)
	}
	for i, f := range settings.DeliveryFees {
		batch.Queue(`INSERT INTO delivery_fees (store_id, neighborhood, fee, position) VALUES ($1, $2, $3, $4)`,
			r.storeID, f.Neighborhood, f.Fee, i)
	}

	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return r.wrap(err, "failed to replace store lists")
	}

	if err = tx.Commit(ctx); err != nil {
		return r.wrap(err, "failed to commit store settings")
	}

	r.logger.Info().
		Int("hours", len(settings.Hours)).
		Int("payment_methods", len(settings.PaymentMethods)).
		Int("delivery_fees", len(settings.DeliveryFees)).
		Msg("store settings saved")

	return nil
}

// SetPasswordHash stores a new admin password hash.
func (r *settingsRepository) SetPasswordHash(ctx context.Context, hash string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stores (id, admin_password_hash, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET admin_password_hash = EXCLUDED.admin_password_hash, updated_at = NOW()
	`, r.storeID, hash)
	if err != nil {
		return r.wrap(err, "failed to update admin password")
	}

	r.logger.Info().Msg("admin password updated")
	return nil
}

func (r *settingsRepository) wrap(err error, msg string) error {
	r.logger.Error().Err(err).Msg(msg)
	return fmt.Errorf("%s: %w", msg, err)
}
