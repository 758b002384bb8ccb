package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/focusflow/pkg/task"
)

// ErrNotFound is returned when a task or category does not exist.
var ErrNotFound = errors.New("store: not found")

// Persistence defines the persistence contract for tasks and categories.
// Every mutation is a whole-document write; last write wins.
type Persistence interface {
	ListTasks(ctx context.Context) []*task.Task
	GetTask(ctx context.Context, id string) (*task.Task, error)
	CreateTask(t *task.Task) error
	UpdateTask(ctx context.Context, id string, p task.Patch) (*task.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListCategories(ctx context.Context) []*task.Category
	EnsureCategory(name string) (*task.Category, error)
	UpdateCategory(ctx context.Context, id string, name, color *string) (*task.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	Watch(ctx context.Context) (<-chan Event, error)
}

const (
	bucketTasks      = "tasks"
	bucketCategories = "categories"
)

// Load creates a Persistence backed by diskv using the provided config and
// seeds the default categories.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	p := &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}

	for _, name := range []string{"Work", "Personal"} {
		if _, err := p.EnsureCategory(name); err != nil {
			return nil, fmt.Errorf("store: seed category %q: %w", name, err)
		}
	}

	return p, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) readTask(key string) (*task.Task, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	t := &task.Task{}
	if err := json.Unmarshal(val, t); err != nil {
		return nil, err
	}
	if t.ID == "" {
		t.ID = keyToPathTransform(key).FileName
	}
	return t, nil
}

func (p *persistence) readCategory(key string) (*task.Category, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	c := &task.Category{}
	if err := json.Unmarshal(val, c); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = keyToPathTransform(key).FileName
	}
	return c, nil
}

func (p *persistence) ListTasks(ctx context.Context) []*task.Task {
	all := make([]*task.Task, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if pk := keyToPathTransform(key); len(pk.Path) == 0 || pk.Path[0] != bucketTasks {
			continue
		}
		t, err := p.readTask(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, t)
	}
	sortTasks(all)
	return all
}

func (p *persistence) GetTask(ctx context.Context, id string) (*task.Task, error) {
	t, err := p.readTask(taskKey(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: task %s", ErrNotFound, id)
		}
		return nil, err
	}
	return t, nil
}

func (p *persistence) CreateTask(t *task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.ID == "" {
		return errors.New("store: task id required")
	}
	return p.write(taskKey(t.ID), t)
}

func (p *persistence) UpdateTask(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	t, err := p.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(t); err != nil {
		return nil, err
	}
	if err := p.write(taskKey(id), t); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *persistence) DeleteTask(ctx context.Context, id string) error {
	if _, err := p.GetTask(ctx, id); err != nil {
		return err
	}
	return p.d.Erase(taskKey(id))
}

func (p *persistence) ListCategories(ctx context.Context) []*task.Category {
	all := make([]*task.Category, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if pk := keyToPathTransform(key); len(pk.Path) == 0 || pk.Path[0] != bucketCategories {
			continue
		}
		c, err := p.readCategory(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, c)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name)
	})
	return all
}

// EnsureCategory returns the category with the given name, creating it if
// needed. Names are matched case-insensitively.
func (p *persistence) EnsureCategory(name string) (*task.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("store: category name required")
	}
	for _, c := range p.ListCategories(context.Background()) {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	c := task.NewCategory(name)
	if err := p.write(categoryKey(c.ID), c); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *persistence) UpdateCategory(ctx context.Context, id string, name, color *string) (*task.Category, error) {
	c, err := p.readCategory(categoryKey(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		return nil, err
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, errors.New("store: category name cannot be empty")
		}
		c.Name = trimmed
	}
	if color != nil {
		c.Color = *color
	}
	if err := p.write(categoryKey(id), c); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *persistence) DeleteCategory(ctx context.Context, id string) error {
	if _, err := p.readCategory(categoryKey(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		return err
	}
	return p.d.Erase(categoryKey(id))
}

func (p *persistence) write(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.d.Write(key, data)
}

// sortTasks orders focus members first (by rank, then id), then the rest by
// most recent update. Mirrors the list ordering of the original API.
func sortTasks(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		left, right := tasks[i], tasks[j]
		if left.IsFocus != right.IsFocus {
			return left.IsFocus
		}
		if left.IsFocus && right.IsFocus {
			lr, rr := rankOrMax(left), rankOrMax(right)
			if lr != rr {
				return lr < rr
			}
			return left.ID < right.ID
		}
		lt, rt := left.Updated.Time, right.Updated.Time
		if lt.Equal(rt) {
			return left.ID < right.ID
		}
		return lt.After(rt)
	})
}

func rankOrMax(t *task.Task) int {
	if t.FocusRank == nil {
		return int(^uint(0) >> 1)
	}
	return *t.FocusRank
}

func taskKey(id string) string {
	return bucketTasks + "/" + id
}

func categoryKey(id string) string {
	return bucketCategories + "/" + id
}

// keys look like `tasks/<id>`; the bucket becomes the directory.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s/%s", strings.Join(pathKey.Path, "/"), pathKey.FileName)
}
