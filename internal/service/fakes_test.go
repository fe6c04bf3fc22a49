package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, upd domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, upd.Name)
	set(&u.Surname, upd.Surname)
	set(&u.BirthDate, upd.BirthDate)
	set(&u.Sex, upd.Sex)
	set(&u.Weight, upd.Weight)
	set(&u.Height, upd.Height)
	set(&u.Age, upd.Age)
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetAvatarKey(_ context.Context, id primitive.ObjectID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvatarKey = key
	return nil
}

// add seeds a user directly.
func (r *fakeUserRepo) add(u domain.User) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = &u
	return u.ID
}

type dayKey struct {
	user primitive.ObjectID
	date string
}

type fakeDailyRepo struct {
	mu   sync.Mutex
	days map[dayKey]*domain.DailyDocument
}

func newFakeDailyRepo() *fakeDailyRepo {
	return &fakeDailyRepo{days: map[dayKey]*domain.DailyDocument{}}
}

func (r *fakeDailyRepo) doc(userID primitive.ObjectID, date string) *domain.DailyDocument {
	k := dayKey{userID, date}
	d, ok := r.days[k]
	if !ok {
		d = &domain.DailyDocument{ID: primitive.NewObjectID(), UserID: userID, Date: date, Meals: []domain.MealSummary{}}
		r.days[k] = d
	}
	return d
}

func (r *fakeDailyRepo) Get(_ context.Context, userID primitive.ObjectID, date string) (*domain.DailyDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.days[dayKey{userID, date}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	cp.Meals = append([]domain.MealSummary(nil), d.Meals...)
	return &cp, nil
}

func (r *fakeDailyRepo) SavePlan(_ context.Context, userID primitive.ObjectID, date string, plan *domain.MealPlan, meals []domain.MealSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.doc(userID, date)
	d.FullPlan = plan
	d.Meals = meals
	d.UpdatedAt = time.Now()
	return nil
}

func (r *fakeDailyRepo) findMeal(userID primitive.ObjectID, date, mealID string) (*domain.MealSummary, error) {
	d, ok := r.days[dayKey{userID, date}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i := range d.Meals {
		if d.Meals[i].ID == mealID {
			return &d.Meals[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeDailyRepo) SetMealCompleted(_ context.Context, userID primitive.ObjectID, date, mealID string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.findMeal(userID, date, mealID)
	if err != nil {
		return err
	}
	m.Completed = completed
	return nil
}

func (r *fakeDailyRepo) ToggleMealCompleted(_ context.Context, userID primitive.ObjectID, date, mealID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.findMeal(userID, date, mealID)
	if err != nil {
		return false, err
	}
	m.Completed = !m.Completed
	return m.Completed, nil
}

func (r *fakeDailyRepo) AddWater(_ context.Context, userID primitive.ObjectID, date string, delta float64) (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.doc(userID, date)
	before := d.Water
	d.Water += delta
	if d.Water < 0 {
		d.Water = 0
	}
	return before, d.Water, nil
}

type fakePantryRepo struct {
	mu    sync.Mutex
	items map[string]*domain.PantryItem
}

func newFakePantryRepo() *fakePantryRepo {
	return &fakePantryRepo{items: map[string]*domain.PantryItem{}}
}

func pantryKey(userID primitive.ObjectID, code string) string { return userID.Hex() + "/" + code }

func (r *fakePantryRepo) AddOrIncrement(_ context.Context, item *domain.PantryItem) (*domain.PantryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := pantryKey(item.UserID, item.Code)
	if existing, ok := r.items[k]; ok {
		existing.Quantity += item.Quantity
		cp := *existing
		return &cp, nil
	}
	cp := *item
	cp.ID = primitive.NewObjectID()
	r.items[k] = &cp
	out := cp
	return &out, nil
}

func (r *fakePantryRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.PantryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.PantryItem{}
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakePantryRepo) SetQuantity(_ context.Context, userID primitive.ObjectID, code string, qty int) (*domain.PantryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[pantryKey(userID, code)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	it.Quantity = qty
	cp := *it
	return &cp, nil
}

func (r *fakePantryRepo) Delete(_ context.Context, userID primitive.ObjectID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := pantryKey(userID, code)
	if _, ok := r.items[k]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, k)
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts []domain.Post
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	r.posts = append(r.posts, *post)
	return post.ID, nil
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Post{}
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeFiles struct {
	uploads []string
	stored  map[string]bool
	deleted []string
	err     error
}

// put simulates the client finishing a presigned PUT.
func (f *fakeFiles) put(key string) {
	if f.stored == nil {
		f.stored = map[string]bool{}
	}
	f.stored[key] = true
}

func (f *fakeFiles) ObjectExists(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.stored[key], nil
}

func (f *fakeFiles) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, key)
	return "https://storage.example/put/" + key + "?ct=" + contentType, nil
}

func (f *fakeFiles) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.example/get/" + key, nil
}

func (f *fakeFiles) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeLookup struct {
	products map[string]*domain.Product
	err      error
	calls    []string
}

func (f *fakeLookup) Product(_ context.Context, code string) (*domain.Product, error) {
	f.calls = append(f.calls, code)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[code]
	if !ok {
		return nil, errLookupNotFound
	}
	return p, nil
}

type fakeGenerator struct {
	plan  *domain.MealPlan
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ domain.UserAttributes) (*domain.MealPlan, error) {
	f.calls++
	return f.plan, f.err
}
