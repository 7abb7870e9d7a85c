// Package memory keeps the catalog, users and orders in process memory. It
// backs storage.driver=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type productRepo struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

func NewProductRepository() repository.ProductRepository {
	return &productRepo{products: make(map[int64]domain.Product)}
}

func (r *productRepo) NextID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last int64
	for id := range r.products {
		if id > last {
			last = id
		}
	}
	return last + 1, nil
}

func (r *productRepo) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return repository.ErrDuplicateProductID
	}

	now := time.Now().UTC()
	product.ObjectID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	r.products[product.ID] = *product
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (r *productRepo) List(_ context.Context, category domain.Category) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if category == "" || p.Category == category {
			res = append(res, p)
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *productRepo) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}

	product.ObjectID = stored.ObjectID
	product.CreatedAt = stored.CreatedAt
	product.UpdatedAt = time.Now().UTC()

	r.products[product.ID] = *product
	return nil
}

func (r *productRepo) DeleteByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	delete(r.products, id)
	return &p, nil
}

type userRepo struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
}

func NewUserRepository() repository.UserRepository {
	return &userRepo{users: make(map[primitive.ObjectID]domain.User)}
}

// emailTaken reports whether another user owns email. Caller holds mu.
func (r *userRepo) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range r.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, primitive.NilObjectID) {
		return repository.ErrUserAlreadyExists
	}

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *userRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		res = append(res, u)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID.Hex() < res[j].ID.Hex() })
	return res, nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return repository.ErrUserAlreadyExists
	}

	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now().UTC()

	r.users[user.ID] = *user
	return nil
}

func (r *userRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}

	delete(r.users, id)
	return nil
}

type orderRepo struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]domain.Order
}

func NewOrderRepository() repository.OrderRepository {
	return &orderRepo{orders: make(map[primitive.ObjectID]domain.Order)}
}

func (r *orderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now

	r.orders[order.ID] = *order
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return &o, nil
}

func (r *orderRepo) List(_ context.Context) ([]domain.Order, error) {
	return r.filter(func(domain.Order) bool { return true }), nil
}

func (r *orderRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.UserID == userID }), nil
}

// filter returns matching orders newest first. ObjectIDs grow monotonically
// within a process, so they break ties between equal timestamps.
func (r *orderRepo) filter(keep func(domain.Order) bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]domain.Order, 0)
	for _, o := range r.orders {
		if keep(o) {
			res = append(res, o)
		}
	}

	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID.Hex() > res[j].ID.Hex()
	})
	return res
}

func (r *orderRepo) Update(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return repository.ErrOrderNotFound
	}

	order.UserID = stored.UserID
	order.CreatedAt = stored.CreatedAt
	order.UpdatedAt = time.Now().UTC()

	r.orders[order.ID] = *order
	return nil
}

func (r *orderRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}

	delete(r.orders, id)
	return nil
}
