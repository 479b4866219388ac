package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"folio.dev/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. Tag and technology lists are
// stored as jsonb.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Posts() PostStore       { return &pgPosts{db: s.db} }
func (s *PGStore) Projects() ProjectStore { return &pgProjects{db: s.db} }
func (s *PGStore) Profiles() ProfileStore { return &pgProfiles{db: s.db} }
func (s *PGStore) Messages() MessageStore { return &pgMessages{db: s.db} }
func (s *PGStore) Chat() ChatStore        { return &pgChat{db: s.db} }

// Posts ---------------------------------------------------------------------

type pgPosts struct{ db *sql.DB }

const postColumns = `id, title, slug, summary, content, cover_image, tags, published, published_at, created_at, updated_at`

func (s *pgPosts) Create(ctx context.Context, p *Post) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	tags, _ := json.Marshal(p.Tags)
	row := s.db.QueryRowContext(ctx,
		`insert into posts(id, title, slug, summary, content, cover_image, tags, published, published_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 returning created_at, updated_at`,
		p.ID, p.Title, p.Slug, p.Summary, p.Content, p.CoverImage, tags, p.Published, p.PublishedAt,
	)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *pgPosts) Find(ctx context.Context, id string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `select `+postColumns+` from posts where id=$1`, id)
	return scanPost(row)
}

func (s *pgPosts) FindBySlug(ctx context.Context, slug string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `select `+postColumns+` from posts where slug=$1`, slug)
	return scanPost(row)
}

func (s *pgPosts) List(ctx context.Context, filter PostFilter) ([]*Post, error) {
	query := `select ` + postColumns + ` from posts`
	var (
		clauses []string
		args    []any
	)
	if filter.Published != nil {
		args = append(args, *filter.Published)
		clauses = append(clauses, `published=$1`)
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		if len(args) == 1 {
			clauses = append(clauses, `tags @> to_jsonb(array[$1::text])`)
		} else {
			clauses = append(clauses, `tags @> to_jsonb(array[$2::text])`)
		}
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` where ` + clause
		} else {
			query += ` and ` + clause
		}
	}
	query += ` order by created_at desc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *pgPosts) Update(ctx context.Context, p *Post) error {
	tags, _ := json.Marshal(p.Tags)
	row := s.db.QueryRowContext(ctx,
		`update posts
		 set title=$2, slug=$3, summary=$4, content=$5, cover_image=$6, tags=$7,
		     published=$8, published_at=$9, updated_at=now()
		 where id=$1
		 returning updated_at`,
		p.ID, p.Title, p.Slug, p.Summary, p.Content, p.CoverImage, tags, p.Published, p.PublishedAt,
	)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *pgPosts) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, `delete from posts where id=$1`, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var (
		p    Post
		tags []byte
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Content, &p.CoverImage,
		&tags, &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil || p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// Projects ------------------------------------------------------------------

type pgProjects struct{ db *sql.DB }

const projectColumns = `id, title, description, image, link, technologies, completed_at, created_at, updated_at`

func (s *pgProjects) Create(ctx context.Context, p *Project) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	tech, _ := json.Marshal(p.Technologies)
	row := s.db.QueryRowContext(ctx,
		`insert into projects(id, title, description, image, link, technologies, completed_at)
		 values($1,$2,$3,$4,$5,$6,$7)
		 returning created_at, updated_at`,
		p.ID, p.Title, p.Description, p.Image, p.Link, tech, p.CompletedAt,
	)
	return row.Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *pgProjects) Find(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `select `+projectColumns+` from projects where id=$1`, id)
	return scanProject(row)
}

func (s *pgProjects) List(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, `select `+projectColumns+` from projects order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *pgProjects) Update(ctx context.Context, p *Project) error {
	tech, _ := json.Marshal(p.Technologies)
	row := s.db.QueryRowContext(ctx,
		`update projects
		 set title=$2, description=$3, image=$4, link=$5, technologies=$6, completed_at=$7, updated_at=now()
		 where id=$1
		 returning updated_at`,
		p.ID, p.Title, p.Description, p.Image, p.Link, tech, p.CompletedAt,
	)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *pgProjects) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, `delete from projects where id=$1`, id)
}

func scanProject(row rowScanner) (*Project, error) {
	var (
		p    Project
		tech []byte
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &p.Link,
		&tech, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(tech, &p.Technologies); err != nil || p.Technologies == nil {
		p.Technologies = []string{}
	}
	return &p, nil
}

// Profiles ------------------------------------------------------------------

type pgProfiles struct{ db *sql.DB }

const profileColumns = `id, owner_id, full_name, tagline, bio, email, github, linkedin, twitter, created_at, updated_at`

func (s *pgProfiles) Create(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx,
		`insert into profiles(id, owner_id, full_name, tagline, bio, email, github, linkedin, twitter)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 returning created_at, updated_at`,
		p.ID, p.OwnerID, p.FullName, p.Tagline, p.Bio, p.Email,
		p.Social.GitHub, p.Social.LinkedIn, p.Social.Twitter,
	)
	return row.Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *pgProfiles) Find(ctx context.Context, id string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `select `+profileColumns+` from profiles where id=$1`, id)
	return scanProfile(row)
}

func (s *pgProfiles) ListByOwner(ctx context.Context, ownerID string) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+profileColumns+` from profiles where owner_id=$1 order by created_at desc`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *pgProfiles) Update(ctx context.Context, p *Profile) error {
	row := s.db.QueryRowContext(ctx,
		`update profiles
		 set full_name=$2, tagline=$3, bio=$4, email=$5, github=$6, linkedin=$7, twitter=$8, updated_at=now()
		 where id=$1
		 returning updated_at`,
		p.ID, p.FullName, p.Tagline, p.Bio, p.Email,
		p.Social.GitHub, p.Social.LinkedIn, p.Social.Twitter,
	)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *pgProfiles) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, `delete from profiles where id=$1`, id)
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.OwnerID, &p.FullName, &p.Tagline, &p.Bio, &p.Email,
		&p.Social.GitHub, &p.Social.LinkedIn, &p.Social.Twitter, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Contact messages ----------------------------------------------------------

type pgMessages struct{ db *sql.DB }

func (s *pgMessages) Create(ctx context.Context, m *ContactMessage) error {
	if m.ID == "" {
		m.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx,
		`insert into contact_messages(id, name, email, message) values($1,$2,$3,$4)
		 returning received_at`,
		m.ID, m.Name, m.Email, m.Message,
	)
	return row.Scan(&m.ReceivedAt)
}

func (s *pgMessages) Find(ctx context.Context, id string) (*ContactMessage, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, email, message, received_at from contact_messages where id=$1`, id)
	var m ContactMessage
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.ReceivedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *pgMessages) List(ctx context.Context) ([]*ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, name, email, message, received_at from contact_messages order by received_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ContactMessage
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.ReceivedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *pgMessages) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, `delete from contact_messages where id=$1`, id)
}

// Chat history --------------------------------------------------------------

type pgChat struct{ db *sql.DB }

func (s *pgChat) Append(ctx context.Context, m *ChatMessage) error {
	if m.ID == "" {
		m.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx,
		`insert into chat_messages(id, user_id, role, content) values($1,$2,$3,$4)
		 returning created_at`,
		m.ID, m.UserID, m.Role, m.Content,
	)
	return row.Scan(&m.CreatedAt)
}

func (s *pgChat) Recent(ctx context.Context, userID string, limit int) ([]*ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, role, content, created_at
		 from (
		   select id, user_id, role, content, created_at
		   from chat_messages where user_id=$1
		   order by created_at desc limit $2
		 ) recent
		 order by created_at asc`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// Clear drops every stored turn for the user. Clearing an empty history is
// not an error.
func (s *pgChat) Clear(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `delete from chat_messages where user_id=$1`, userID)
	return err
}

// helpers -------------------------------------------------------------------

func deleteByID(ctx context.Context, db *sql.DB, query, id string) error {
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
