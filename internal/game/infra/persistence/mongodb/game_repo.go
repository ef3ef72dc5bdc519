package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/infra/persistence/model"
)

const (
	gameCollection     = "game"
	turnCollection     = "game_turn"
	actionCollection   = "game_action_log"
	snapshotCollection = "game_snapshot"
)

type GameRepository struct {
	games     *mongo.Collection
	turns     *mongo.Collection
	actions   *mongo.Collection
	snapshots *mongo.Collection
}

func NewGameRepository(db *mongo.Database) *GameRepository {
	return &GameRepository{
		games:     db.Collection(gameCollection),
		turns:     db.Collection(turnCollection),
		actions:   db.Collection(actionCollection),
		snapshots: db.Collection(snapshotCollection),
	}
}

func (r *GameRepository) CreateGame(ctx context.Context, rec *entity.GameRecord) error {
	if r == nil || r.games == nil {
		return errors.New("mongodb game collection is nil")
	}
	doc := model.GameRecordToDoc(rec)
	_, err := r.games.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return entity.ErrGameExists
	}
	return err
}

func (r *GameRepository) GetGame(ctx context.Context, id entity.GameID) (*entity.GameRecord, error) {
	if r == nil || r.games == nil {
		return nil, errors.New("mongodb game collection is nil")
	}
	var doc model.GameDoc
	err := r.games.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.GameDocToRecord(doc), nil
}

func (r *GameRepository) ListGames(ctx context.Context, status entity.GameStatus, limit, offset int) ([]*entity.GameRecord, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.games.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var out []*entity.GameRecord
	for cursor.Next(ctx) {
		var doc model.GameDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, model.GameDocToRecord(doc))
	}
	return out, cursor.Err()
}

func (r *GameRepository) ReplaceState(ctx context.Context, id entity.GameID, state *entity.GameState) error {
	_, err := r.games.UpdateOne(ctx,
		bson.M{"_id": string(id)},
		bson.M{"$set": bson.M{
			"state":      state,
			"status":     string(entity.StatusActive),
			"updated_at": time.Now().UTC(),
		}},
	)
	return err
}

func (r *GameRepository) AppendTurn(ctx context.Context, rec *entity.TurnRecord) error {
	doc, err := model.TurnRecordToDoc(rec)
	if err != nil {
		return err
	}
	// (game_id, turn) 唯一；同回合重放按已落库为准。
	_, err = r.turns.ReplaceOne(ctx,
		bson.M{"game_id": doc.GameID, "turn": doc.Turn},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *GameRepository) AppendPlayerActions(ctx context.Context, records []*entity.PlayerActionRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, 0, len(records))
	for _, rec := range records {
		doc, err := model.ActionRecordToDoc(rec)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	_, err := r.actions.InsertMany(ctx, docs)
	return err
}

func (r *GameRepository) TurnHistory(ctx context.Context, id entity.GameID) ([]*entity.TurnRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "turn", Value: 1}})
	cursor, err := r.turns.Find(ctx, bson.M{"game_id": string(id)}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var out []*entity.TurnRecord
	for cursor.Next(ctx) {
		var doc model.TurnDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rec, err := model.TurnDocToRecord(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, cursor.Err()
}

func (r *GameRepository) SaveSnapshot(ctx context.Context, snapshot *entity.GamePersistSnapshot) error {
	if snapshot == nil {
		return nil
	}
	doc := model.SnapshotToDoc(snapshot)
	_, err := r.snapshots.ReplaceOne(ctx,
		bson.M{"game_id": doc.GameID, "turn": doc.Turn},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *GameRepository) LatestSnapshot(ctx context.Context, id entity.GameID) (*entity.GamePersistSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "turn", Value: -1}})
	var doc model.SnapshotDoc
	err := r.snapshots.FindOne(ctx, bson.M{"game_id": string(id)}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.SnapshotDocToEntity(doc), nil
}

func (r *GameRepository) MarkEnded(ctx context.Context, id entity.GameID, winner entity.PlayerID, victory entity.VictoryType) error {
	now := time.Now().UTC()
	_, err := r.games.UpdateOne(ctx,
		bson.M{"_id": string(id)},
		bson.M{"$set": bson.M{
			"status":       string(entity.StatusEnded),
			"winner":       string(winner),
			"victory_type": string(victory),
			"updated_at":   now,
			"ended_at":     now,
		}},
	)
	return err
}
