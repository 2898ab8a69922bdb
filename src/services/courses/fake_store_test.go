package courses

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"learnhub-backend/src/models"
	"learnhub-backend/src/utils"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store. Search matches title or description
// case-insensitively.
type memStore struct {
	mu      sync.Mutex
	courses map[primitive.ObjectID]*models.Course
	users   map[primitive.ObjectID]models.UserSummary
	cats    map[primitive.ObjectID]models.CategorySummary

	updates []bson.M
	err     error
}

func newMemStore() *memStore {
	return &memStore{
		courses: map[primitive.ObjectID]*models.Course{},
		users:   map[primitive.ObjectID]models.UserSummary{},
		cats:    map[primitive.ObjectID]models.CategorySummary{},
	}
}

func clone(c *models.Course) *models.Course {
	cp := *c
	cp.Content = append([]models.ContentItem(nil), c.Content...)
	cp.EnrolledStudents = append([]primitive.ObjectID(nil), c.EnrolledStudents...)
	cp.Ratings = append([]models.Rating(nil), c.Ratings...)
	return &cp
}

func (m *memStore) put(c *models.Course) *models.Course {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	m.courses[c.ID] = clone(c)
	return c
}

func (m *memStore) get(id primitive.ObjectID) *models.Course {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.courses[id]; ok {
		return clone(c)
	}
	return nil
}

func (m *memStore) Insert(_ context.Context, c *models.Course) error {
	if m.err != nil {
		return m.err
	}
	m.put(c)
	return nil
}

func (m *memStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.get(id), nil
}

func (m *memStore) summary(c *models.Course) models.CourseSummary {
	s := models.CourseSummary{
		ID:            c.ID,
		Title:         c.Title,
		Slug:          c.Slug,
		Description:   c.Description,
		Thumbnail:     c.Thumbnail,
		Price:         c.Price,
		Level:         c.Level,
		Duration:      c.Duration,
		IsPublished:   c.IsPublished,
		Status:        c.Status,
		AverageRating: c.AverageRating,
		RatingCount:   c.RatingCount,
		EnrolledCount: len(c.EnrolledStudents),
		CreatedAt:     c.CreatedAt,
	}
	if u, ok := m.users[c.Mentor]; ok {
		s.Mentor = &u
	}
	if cat, ok := m.cats[c.Category]; ok {
		s.Category = &cat
	}
	return s
}

func (m *memStore) FindDetail(_ context.Context, id primitive.ObjectID) (*models.CourseDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	s := m.summary(c)
	d := &models.CourseDetail{
		ID: c.ID, Title: c.Title, Slug: c.Slug, Description: c.Description,
		Thumbnail: c.Thumbnail, Price: c.Price, Category: s.Category, Level: c.Level,
		Duration: c.Duration, Content: c.Content, IsPublished: c.IsPublished,
		Status: c.Status, Mentor: s.Mentor, AverageRating: c.AverageRating,
		RatingCount: c.RatingCount, EnrolledCount: len(c.EnrolledStudents),
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
	for _, sid := range c.EnrolledStudents {
		if u, ok := m.users[sid]; ok {
			d.EnrolledStudents = append(d.EnrolledStudents, u)
		}
	}
	for _, r := range c.Ratings {
		view := models.RatingView{Rating: r.Rating, Review: r.Review, Date: r.Date}
		if u, ok := m.users[r.User]; ok {
			view.User = &u
		}
		d.Ratings = append(d.Ratings, view)
	}
	return d, nil
}

func (f Filter) matches(c *models.Course) bool {
	if f.Published != nil && c.IsPublished != *f.Published {
		return false
	}
	if f.Category != nil && c.Category != *f.Category {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if f.Mentor != nil && c.Mentor != *f.Mentor {
		return false
	}
	if f.Student != nil && !c.IsEnrolled(*f.Student) {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.MinPrice != nil && c.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && c.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Title), q) && !strings.Contains(strings.ToLower(c.Description), q) {
			return false
		}
	}
	return true
}

func less(a, b *models.Course, sortDoc bson.D) bool {
	for _, e := range sortDoc {
		dir := e.Value.(int)
		var cmp int
		switch e.Key {
		case "createdAt":
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		case "price":
			cmp = compareFloat(a.Price, b.Price)
		case "averageRating":
			cmp = compareFloat(a.AverageRating, b.AverageRating)
		case "title":
			cmp = strings.Compare(a.Title, b.Title)
		case "_id":
			cmp = strings.Compare(a.ID.Hex(), b.ID.Hex())
		}
		if cmp != 0 {
			return cmp*dir < 0
		}
	}
	return false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (m *memStore) selectSorted(f Filter, sortDoc bson.D) []*models.Course {
	var out []*models.Course
	for _, c := range m.courses {
		if f.matches(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j], sortDoc) })
	return out
}

func (m *memStore) FindPage(_ context.Context, f Filter, p models.PaginationParams) ([]models.CourseSummary, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.selectSorted(f, p.GetSortOrder())
	start := int(p.GetSkip())
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	rows := []models.CourseSummary{}
	for _, c := range all[start:end] {
		rows = append(rows, m.summary(c))
	}
	return rows, int64(len(all)), nil
}

func (m *memStore) FindAll(_ context.Context, f Filter, sortDoc bson.D) ([]models.CourseSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := []models.CourseSummary{}
	for _, c := range m.selectSorted(f, sortDoc) {
		rows = append(rows, m.summary(c))
	}
	return rows, nil
}

// UpdateFields merges set into the stored document through its bson form.
func (m *memStore) UpdateFields(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, set)
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	raw, err := bson.Marshal(c)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for k, v := range set {
		doc[k] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var updated models.Course
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return nil, errors.Wrap(err, "merge update")
	}
	m.courses[id] = &updated
	return clone(&updated), nil
}

func (m *memStore) AddStudent(_ context.Context, id, user primitive.ObjectID, at time.Time) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.courses[id]
	if !ok || !stored.IsPublished || stored.IsEnrolled(user) {
		return false, nil
	}
	stored.EnrolledStudents = append(stored.EnrolledStudents, user)
	stored.UpdatedAt = at
	return true, nil
}

func (m *memStore) UpsertRating(_ context.Context, id primitive.ObjectID, r models.Rating) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.courses[id]
	if !ok || !stored.IsEnrolled(r.User) {
		return false, nil
	}
	if i := stored.RatingIndex(r.User); i >= 0 {
		stored.Ratings[i] = r
	} else {
		stored.Ratings = append(stored.Ratings, r)
	}
	stored.RecalculateRating()
	stored.UpdatedAt = r.Date
	return true, nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return false, nil
	}
	delete(m.courses, id)
	return true, nil
}

// fakeCategories knows a fixed set of category ids.
type fakeCategories struct {
	known map[primitive.ObjectID]bool
	calls int
}

func newFakeCategories(ids ...primitive.ObjectID) *fakeCategories {
	f := &fakeCategories{known: map[primitive.ObjectID]bool{}}
	for _, id := range ids {
		f.known[id] = true
	}
	return f
}

func (f *fakeCategories) ValidateCategoryID(_ context.Context, id primitive.ObjectID) error {
	f.calls++
	if !f.known[id] {
		return utils.NotFound("Category not found")
	}
	return nil
}

type recordingEnqueuer struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (r *recordingEnqueuer) EnqueueRatingRefresh(_ context.Context, courseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, courseID)
	return r.err
}

func (r *recordingEnqueuer) EnqueueEnrollmentNotice(_ context.Context, courseID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, courseID+"/"+userID)
	return r.err
}

// barrierStore holds every FindByID caller until all of them have loaded
// the course, so their writes race.
type barrierStore struct {
	*memStore
	loaded *sync.WaitGroup
}

func (b barrierStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	c, err := b.memStore.FindByID(ctx, id)
	b.loaded.Done()
	b.loaded.Wait()
	return c, err
}
