package likes

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"kamuisnap/internal/cache"
	"kamuisnap/internal/database"
	"kamuisnap/internal/metrics"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrInvalidInput     = errors.New("invalid input")
	ErrPostNotFound     = errors.New("post not found")
)

type Service interface {
	Like(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error)
	Unlike(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error)
	Count(ctx context.Context, postID int64) (int64, error)
	IsLiked(ctx context.Context, userID uuid.UUID, postID int64) (bool, error)
}

type service struct {
	db    database.Service
	cache *cache.Cache
}

// NewService returns the like ledger. c may be nil.
func NewService(db database.Service, c *cache.Cache) Service {
	return &service{db: db, cache: c}
}

func validate(userID uuid.UUID, postID int64) error {
	if userID == uuid.Nil {
		return ErrNotAuthenticated
	}
	if postID < 1 {
		return ErrInvalidInput
	}
	return nil
}

// Like records the pair once. The counter on posts only moves when a row was
// actually inserted, so it always equals the number of like rows.
func (s *service) Like(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error) {
	if err := validate(userID, postID); err != nil {
		return nil, err
	}

	res := &Result{PostID: postID, Liked: true}
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		const q = `
			INSERT INTO likes (id, user_id, post_id, created_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (user_id, post_id) DO NOTHING`
		r, err := tx.ExecContext(ctx, q, uuid.New(), userID, postID)
		if err != nil {
			if database.IsForeignKeyViolation(err, "likes_post_id_fkey") {
				return ErrPostNotFound
			}
			return database.Wrap("insert like", err)
		}
		n, err := r.RowsAffected()
		if err != nil {
			return database.Wrap("insert like", err)
		}
		res.Changed = n == 1

		return adjustCounter(ctx, tx, postID, res)
	})
	if err != nil {
		log.Printf("Error liking post %d: %v", postID, err)
		return nil, err
	}

	s.record("like", res)
	return res, nil
}

// Unlike removes the pair. Unliking a post that was never liked is a no-op.
func (s *service) Unlike(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error) {
	if err := validate(userID, postID); err != nil {
		return nil, err
	}

	res := &Result{PostID: postID}
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		r, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
		if err != nil {
			return database.Wrap("delete like", err)
		}
		n, err := r.RowsAffected()
		if err != nil {
			return database.Wrap("delete like", err)
		}
		res.Changed = n == 1

		return adjustCounter(ctx, tx, postID, res)
	})
	if err != nil {
		log.Printf("Error unliking post %d: %v", postID, err)
		return nil, err
	}

	s.record("unlike", res)
	return res, nil
}

// adjustCounter applies the delta for a changed ledger and reads the current count.
func adjustCounter(ctx context.Context, tx *sql.Tx, postID int64, res *Result) error {
	delta := 0
	if res.Changed {
		delta = 1
		if !res.Liked {
			delta = -1
		}
	}

	err := tx.QueryRowContext(ctx,
		`UPDATE posts SET likes = likes + $1 WHERE id = $2 RETURNING likes`,
		delta, postID,
	).Scan(&res.Likes)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return database.Wrap("update like counter", err)
	}
	return nil
}

func (s *service) record(action string, res *Result) {
	outcome := "noop"
	if res.Changed {
		outcome = "applied"
		// Detached from the request context.
		s.cache.InvalidatePost(context.Background(), res.PostID)
	}
	metrics.LikeEventsTotal.WithLabelValues(action, outcome).Inc()
}

func (s *service) Count(ctx context.Context, postID int64) (int64, error) {
	if postID < 1 {
		return 0, ErrInvalidInput
	}
	const q = `SELECT COUNT(*) FROM likes WHERE post_id = $1`
	var cnt int64
	if err := s.db.QueryRow(ctx, q, postID).Scan(&cnt); err != nil {
		return 0, database.Wrap("count likes", err)
	}
	return cnt, nil
}

func (s *service) IsLiked(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	if err := validate(userID, postID); err != nil {
		return false, err
	}
	const q = `SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)`
	var liked bool
	if err := s.db.QueryRow(ctx, q, userID, postID).Scan(&liked); err != nil {
		return false, database.Wrap("check like", err)
	}
	return liked, nil
}
