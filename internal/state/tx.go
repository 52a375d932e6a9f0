package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/storage"
)

// Tx reads through to the backend and stages writes. Reads observe the tx's own staged
// writes. Values handed out are copies; mutate them and Set them back.
type Tx struct {
	ctx     context.Context
	store   *Store
	batch   storage.Batch
	deleted map[string]bool
}

func newTx(ctx context.Context, s *Store) *Tx {
	return &Tx{
		ctx:     ctx,
		store:   s,
		batch:   storage.Batch{Puts: make(map[string][]byte)},
		deleted: make(map[string]bool),
	}
}

func (tx *Tx) Context() context.Context {
	return tx.ctx
}

func (tx *Tx) empty() bool {
	return len(tx.batch.Puts) == 0 && len(tx.batch.Deletes) == 0 && len(tx.batch.Events) == 0
}

func (tx *Tx) Cart() ([]model.CartLine, error) {
	lines, _, err := get[[]model.CartLine](tx, KeyCart)
	return lines, err
}

func (tx *Tx) SetCart(lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}
	return tx.put(KeyCart, lines)
}

// Orders returns the operational list in insertion order.
func (tx *Tx) Orders() ([]model.Order, error) {
	orders, _, err := get[[]model.Order](tx, KeyOrders)
	return orders, err
}

func (tx *Tx) SetOrders(orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}
	return tx.put(KeyOrders, orders)
}

// Products returns the catalog. Use HasProducts to tell an empty catalog from a missing one.
func (tx *Tx) Products() ([]model.Product, error) {
	products, _, err := get[[]model.Product](tx, KeyProducts)
	return products, err
}

func (tx *Tx) HasProducts() (bool, error) {
	_, found, err := get[[]model.Product](tx, KeyProducts)
	return found, err
}

func (tx *Tx) SetProducts(products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}
	return tx.put(KeyProducts, products)
}

// Settings returns the stored settings, or the configured defaults when none are stored.
func (tx *Tx) Settings() (model.Settings, error) {
	settings, found, err := get[model.Settings](tx, KeySettings)
	if err != nil {
		return model.Settings{}, err
	}
	if !found {
		return tx.store.defaults, nil
	}
	return settings, nil
}

func (tx *Tx) SetSettings(settings model.Settings) error {
	return tx.put(KeySettings, settings)
}

// User returns the session principal, or nil when nobody is logged in.
func (tx *Tx) User() (*model.User, error) {
	user, found, err := get[model.User](tx, KeyUser)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (tx *Tx) SetUser(user model.User) error {
	return tx.put(KeyUser, user)
}

func (tx *Tx) ClearUser() {
	tx.del(KeyUser)
}

// Users returns the registered accounts.
func (tx *Tx) Users() ([]model.User, error) {
	users, _, err := get[[]model.User](tx, KeyUsers)
	return users, err
}

func (tx *Tx) SetUsers(users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	return tx.put(KeyUsers, users)
}

// Emit stages an outbox event committed together with the values.
func (tx *Tx) Emit(msg *model.OutboxMessage) {
	tx.batch.Events = append(tx.batch.Events, msg)
}

func (tx *Tx) put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tx.batch.Puts[key] = raw
	if tx.deleted[key] {
		delete(tx.deleted, key)
		tx.batch.Deletes = removeKey(tx.batch.Deletes, key)
	}
	return nil
}

func (tx *Tx) del(key string) {
	delete(tx.batch.Puts, key)
	if !tx.deleted[key] {
		tx.deleted[key] = true
		tx.batch.Deletes = append(tx.batch.Deletes, key)
	}
}

func get[T any](tx *Tx, key string) (v T, found bool, err error) {
	if tx.deleted[key] {
		return v, false, nil
	}
	if raw, ok := tx.batch.Puts[key]; ok {
		if err = json.Unmarshal(raw, &v); err != nil {
			return v, false, fmt.Errorf("decode staged %s: %w", key, err)
		}
		return v, true, nil
	}
	return load[T](tx.ctx, tx.store.backend, key)
}

func removeKey(keys []string, key string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
