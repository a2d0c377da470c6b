package sqlite

import (
	"context"

	"github.com/gridmines/minesync/internal/sync/domain"
)

type gamesRepo struct {
	db dbtx
}

func (r *gamesRepo) ListGames(ctx context.Context, userID int64) ([]domain.Game, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT difficulty, encoded_game, created_at
		 FROM games
		 WHERE user_id = ?
		 ORDER BY difficulty;`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		var g domain.Game
		if err := rows.Scan(&g.Difficulty, &g.EncodedGame, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (r *gamesRepo) GetGameByDifficulty(
	ctx context.Context,
	userID int64,
	difficulty int,
) (domain.Game, error) {
	var g domain.Game
	err := r.db.QueryRowContext(ctx,
		`SELECT difficulty, encoded_game, created_at
		 FROM games
		 WHERE user_id = ? AND difficulty = ?;`, userID, difficulty,
	).Scan(&g.Difficulty, &g.EncodedGame, &g.CreatedAt)
	if err != nil {
		return domain.Game{}, mapNotFound(err)
	}
	return g, nil
}

func (r *gamesRepo) CreateGame(ctx context.Context, userID int64, g domain.Game) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO games (user_id, difficulty, encoded_game, created_at)
		 VALUES (?, ?, ?, ?);`,
		userID, g.Difficulty, g.EncodedGame, g.CreatedAt,
	)
	return mapConflict(err)
}

func (r *gamesRepo) UpdateGame(ctx context.Context, userID int64, g domain.Game) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games
		 SET encoded_game = ?, created_at = ?
		 WHERE user_id = ? AND difficulty = ?;`,
		g.EncodedGame, g.CreatedAt, userID, g.Difficulty,
	)
	return err
}

func (r *gamesRepo) DeleteGame(ctx context.Context, userID int64, difficulty int) error {
	return execOne(ctx, r.db,
		`DELETE FROM games
		 WHERE user_id = ? AND difficulty = ?;`, userID, difficulty,
	)
}
