package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"FourEmpires/internal/game/entity"
)

// GameRepository 进程内实现，开发联调和测试用。
// 写入时深拷贝状态，模拟真实落库后的隔离性。
type GameRepository struct {
	mu        sync.RWMutex
	games     map[entity.GameID]*entity.GameRecord
	turns     map[entity.GameID][]*entity.TurnRecord
	actions   map[entity.GameID][]*entity.PlayerActionRecord
	snapshots map[entity.GameID][]*entity.GamePersistSnapshot
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		games:     make(map[entity.GameID]*entity.GameRecord),
		turns:     make(map[entity.GameID][]*entity.TurnRecord),
		actions:   make(map[entity.GameID][]*entity.PlayerActionRecord),
		snapshots: make(map[entity.GameID][]*entity.GamePersistSnapshot),
	}
}

func (r *GameRepository) CreateGame(ctx context.Context, rec *entity.GameRecord) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[rec.ID]; ok {
		return entity.ErrGameExists
	}
	r.games[rec.ID] = cloneRecord(rec)
	return nil
}

func (r *GameRepository) GetGame(ctx context.Context, id entity.GameID) (*entity.GameRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.games[id]
	if !ok {
		return nil, entity.ErrGameNotFound
	}
	return cloneRecord(rec), nil
}

func (r *GameRepository) ListGames(ctx context.Context, status entity.GameStatus, limit, offset int) ([]*entity.GameRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.GameRecord
	for _, rec := range r.games {
		if status != "" && rec.Status != status {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *GameRepository) ReplaceState(ctx context.Context, id entity.GameID, state *entity.GameState) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.games[id]
	if !ok {
		return entity.ErrGameNotFound
	}
	rec.State = state.Clone()
	rec.Status = entity.StatusActive
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *GameRepository) AppendTurn(ctx context.Context, record *entity.TurnRecord) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	// (game_id, turn) 幂等：重放时保留首次落库的记录。
	for _, existing := range r.turns[record.GameID] {
		if existing.Turn == record.Turn {
			return nil
		}
	}
	cp := *record
	r.turns[record.GameID] = append(r.turns[record.GameID], &cp)
	return nil
}

func (r *GameRepository) AppendPlayerActions(ctx context.Context, records []*entity.PlayerActionRecord) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range records {
		cp := *record
		r.actions[record.GameID] = append(r.actions[record.GameID], &cp)
	}
	return nil
}

func (r *GameRepository) TurnHistory(ctx context.Context, id entity.GameID) ([]*entity.TurnRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.turns[id]
	out := make([]*entity.TurnRecord, 0, len(records))
	for _, record := range records {
		cp := *record
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Turn < out[j].Turn })
	return out, nil
}

func (r *GameRepository) SaveSnapshot(ctx context.Context, snapshot *entity.GamePersistSnapshot) error {
	_ = ctx
	if snapshot == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *snapshot
	if snapshot.State != nil {
		cp.State = snapshot.State.Clone()
	}
	r.snapshots[snapshot.GameID] = append(r.snapshots[snapshot.GameID], &cp)
	return nil
}

func (r *GameRepository) LatestSnapshot(ctx context.Context, id entity.GameID) (*entity.GamePersistSnapshot, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	snaps := r.snapshots[id]
	if len(snaps) == 0 {
		return nil, entity.ErrSnapshotNotFound
	}
	latest := snaps[0]
	for _, s := range snaps[1:] {
		if s.Turn >= latest.Turn {
			latest = s
		}
	}
	cp := *latest
	if latest.State != nil {
		cp.State = latest.State.Clone()
	}
	return &cp, nil
}

func (r *GameRepository) MarkEnded(ctx context.Context, id entity.GameID, winner entity.PlayerID, victory entity.VictoryType) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.games[id]
	if !ok {
		return entity.ErrGameNotFound
	}
	now := time.Now().UTC()
	rec.Status = entity.StatusEnded
	rec.Winner = winner
	rec.VictoryType = victory
	rec.UpdatedAt = now
	rec.EndedAt = now
	return nil
}

func cloneRecord(rec *entity.GameRecord) *entity.GameRecord {
	cp := *rec
	cp.Players = append([]entity.PlayerID(nil), rec.Players...)
	if rec.State != nil {
		cp.State = rec.State.Clone()
	}
	return &cp
}
