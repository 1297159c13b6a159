package planner

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/infra/sqlitedb"
)

// Store persists planner data in SQLite. It is safe for concurrent use.
type Store struct {
	db       *sql.DB
	validate *validator.Validate
	now      func() time.Time
}

type taskInput struct {
	Date  string `validate:"required,datetime=2006-01-02"`
	Title string `validate:"required,max=200"`
}

type linkInput struct {
	Title string `validate:"required,max=200"`
	URL   string `validate:"required,url"`
}

type noteInput struct {
	Title string `validate:"required,max=200"`
	Body  string `validate:"max=20000"`
}

// Open opens (and migrates) the planner database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlitedb.Open(path, sqlitedb.DefaultConfig())
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, validate: validator.New(), now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "planner: run migrations")
	}
	zlog.Info().Msgf("planner: opened: path=%s", path)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		title TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date);
	CREATE TABLE IF NOT EXISTS reflections (
		date TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return errors.Wrapf(ErrInvalid, "%v", err)
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(v string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t
}

func expectOne(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "%s %s", what, id)
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%s %s", what, id)
	}
	return nil
}

// AddTask adds a to-do on date.
func (s *Store) AddTask(ctx context.Context, date, title string) (Task, error) {
	in := taskInput{Date: date, Title: strings.TrimSpace(title)}
	if err := s.check(in); err != nil {
		return Task{}, err
	}

	t := Task{ID: uuid.NewString(), Date: in.Date, Title: in.Title, CreatedAt: s.now()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, date, title, done, created_at) VALUES (?, ?, ?, 0, ?)`,
		t.ID, t.Date, t.Title, t.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return Task{}, errors.Wrap(err, "planner: add task")
	}
	return t, nil
}

// SetTaskDone marks a task done or not done.
func (s *Store) SetTaskDone(ctx context.Context, id string, done bool) (Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET done = ? WHERE id = ?`, done, id)
	if err != nil {
		return Task{}, errors.Wrap(err, "planner: update task")
	}
	if err := expectOne(res, "task", id); err != nil {
		return Task{}, err
	}
	return s.task(ctx, id)
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "planner: delete task")
	}
	return expectOne(res, "task", id)
}

func (s *Store) task(ctx context.Context, id string) (Task, error) {
	var t Task
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, title, done, created_at FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Date, &t.Title, &t.Done, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, errors.Wrapf(ErrNotFound, "task %s", id)
	}
	if err != nil {
		return Task{}, errors.Wrap(err, "planner: read task")
	}
	t.CreatedAt = parseTimestamp(created)
	return t, nil
}

// TasksBetween returns tasks with from <= date <= to, by date then creation.
func (s *Store) TasksBetween(ctx context.Context, from, to string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, title, done, created_at FROM tasks
		 WHERE date >= ? AND date <= ? ORDER BY date, created_at, id`, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "planner: query tasks")
	}
	defer func() { _ = rows.Close() }()

	result := make([]Task, 0)
	for rows.Next() {
		var t Task
		var created string
		if err := rows.Scan(&t.ID, &t.Date, &t.Title, &t.Done, &created); err != nil {
			return nil, errors.Wrap(err, "planner: scan task")
		}
		t.CreatedAt = parseTimestamp(created)
		result = append(result, t)
	}
	return result, rows.Err()
}

// SetReflection stores the reflection for date, replacing any previous one.
// Empty text deletes it.
func (s *Store) SetReflection(ctx context.Context, date, text string) error {
	if err := s.check(taskInput{Date: date, Title: "reflection"}); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		_, err := s.db.ExecContext(ctx, `DELETE FROM reflections WHERE date = ?`, date)
		return errors.Wrap(err, "planner: delete reflection")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reflections (date, text, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at`,
		date, text, s.timestamp())
	return errors.Wrap(err, "planner: set reflection")
}

func (s *Store) reflections(ctx context.Context, from, to string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, text FROM reflections WHERE date >= ? AND date <= ?`, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "planner: query reflections")
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]string)
	for rows.Next() {
		var date, text string
		if err := rows.Scan(&date, &text); err != nil {
			return nil, errors.Wrap(err, "planner: scan reflection")
		}
		result[date] = text
	}
	return result, rows.Err()
}

// Day returns the tasks and reflection of one day.
func (s *Store) Day(ctx context.Context, date time.Time) (Day, error) {
	key := date.Format(DateLayout)
	tasks, err := s.TasksBetween(ctx, key, key)
	if err != nil {
		return Day{}, err
	}
	refl, err := s.reflections(ctx, key, key)
	if err != nil {
		return Day{}, err
	}
	return Day{Date: key, Tasks: tasks, Reflection: refl[key]}, nil
}

// Week returns the Monday-based week containing date.
func (s *Store) Week(ctx context.Context, date time.Time) (Week, error) {
	start := WeekStart(date)
	end := start.AddDate(0, 0, 6)
	from, to := start.Format(DateLayout), end.Format(DateLayout)

	tasks, err := s.TasksBetween(ctx, from, to)
	if err != nil {
		return Week{}, err
	}
	refl, err := s.reflections(ctx, from, to)
	if err != nil {
		return Week{}, err
	}

	w := Week{Start: from}
	index := make(map[string]int, 7)
	for i := range w.Days {
		key := start.AddDate(0, 0, i).Format(DateLayout)
		w.Days[i] = Day{Date: key, Tasks: make([]Task, 0), Reflection: refl[key]}
		index[key] = i
	}
	for _, t := range tasks {
		i := index[t.Date]
		w.Days[i].Tasks = append(w.Days[i].Tasks, t)
	}
	return w, nil
}

// AddLink stores a shared link. The URL must be absolute.
func (s *Store) AddLink(ctx context.Context, title, url string) (Link, error) {
	in := linkInput{Title: strings.TrimSpace(title), URL: strings.TrimSpace(url)}
	if err := s.check(in); err != nil {
		return Link{}, err
	}

	l := Link{ID: uuid.NewString(), Title: in.Title, URL: in.URL, CreatedAt: s.now()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO links (id, title, url, created_at) VALUES (?, ?, ?, ?)`,
		l.ID, l.Title, l.URL, l.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return Link{}, errors.Wrap(err, "planner: add link")
	}
	return l, nil
}

// DeleteLink removes a link.
func (s *Store) DeleteLink(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "planner: delete link")
	}
	return expectOne(res, "link", id)
}

// Links returns all links, oldest first.
func (s *Store) Links(ctx context.Context) ([]Link, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, url, created_at FROM links ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Wrap(err, "planner: query links")
	}
	defer func() { _ = rows.Close() }()

	result := make([]Link, 0)
	for rows.Next() {
		var l Link
		var created string
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &created); err != nil {
			return nil, errors.Wrap(err, "planner: scan link")
		}
		l.CreatedAt = parseTimestamp(created)
		result = append(result, l)
	}
	return result, rows.Err()
}

// AddNote stores a meeting note.
func (s *Store) AddNote(ctx context.Context, title, body string) (Note, error) {
	in := noteInput{Title: strings.TrimSpace(title), Body: body}
	if err := s.check(in); err != nil {
		return Note{}, err
	}

	now := s.now()
	n := Note{ID: uuid.NewString(), Title: in.Title, Body: in.Body, CreatedAt: now, UpdatedAt: now}
	ts := now.UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Body, ts, ts)
	if err != nil {
		return Note{}, errors.Wrap(err, "planner: add note")
	}
	return n, nil
}

// UpdateNote replaces the title and body of a note.
func (s *Store) UpdateNote(ctx context.Context, id, title, body string) (Note, error) {
	in := noteInput{Title: strings.TrimSpace(title), Body: body}
	if err := s.check(in); err != nil {
		return Note{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, body = ?, updated_at = ? WHERE id = ?`,
		in.Title, in.Body, s.timestamp(), id)
	if err != nil {
		return Note{}, errors.Wrap(err, "planner: update note")
	}
	if err := expectOne(res, "note", id); err != nil {
		return Note{}, err
	}

	var n Note
	var created, updated string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, title, body, created_at, updated_at FROM notes WHERE id = ?`, id).
		Scan(&n.ID, &n.Title, &n.Body, &created, &updated)
	if err != nil {
		return Note{}, errors.Wrap(err, "planner: read note")
	}
	n.CreatedAt = parseTimestamp(created)
	n.UpdatedAt = parseTimestamp(updated)
	return n, nil
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "planner: delete note")
	}
	return expectOne(res, "note", id)
}

// Notes returns all notes, most recently updated first.
func (s *Store) Notes(ctx context.Context) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, created_at, updated_at FROM notes ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, errors.Wrap(err, "planner: query notes")
	}
	defer func() { _ = rows.Close() }()

	result := make([]Note, 0)
	for rows.Next() {
		var n Note
		var created, updated string
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &created, &updated); err != nil {
			return nil, errors.Wrap(err, "planner: scan note")
		}
		n.CreatedAt = parseTimestamp(created)
		n.UpdatedAt = parseTimestamp(updated)
		result = append(result, n)
	}
	return result, rows.Err()
}
