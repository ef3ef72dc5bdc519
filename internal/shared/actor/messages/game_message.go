package messages

// GameMessage 是所有对局消息的路由接口：manager 按 GameID 找到对应 actor。
type GameMessage interface {
	TargetGameID() string
}

type GameBaseMessage struct {
	GameId string
}

func (m GameBaseMessage) TargetGameID() string {
	return m.GameId
}

// CreateGame 建局请求。数值为 0 的规则参数由服务端默认值补齐。
type CreateGame struct {
	GameBaseMessage
	Players       []string
	Seed          int64
	MapWidth      int
	MapHeight     int
	MaxTurns      int
	SnapshotEvery int
}

// SubmitActions 某玩家提交本回合的全部动作。
// Actions 是已解包的 JSON 对象（带 "type" 标签），由对局 actor 做最终解码。
// 同一玩家在回合内重复提交会覆盖之前的提交。
type SubmitActions struct {
	GameBaseMessage
	Player  string
	Actions []map[string]any
}

// GetGameState 查询对局状态；Player 非空时返回该玩家视野内的裁剪视图。
type GetGameState struct {
	GameBaseMessage
	Player string
}

// GetTurnHistory 查询回合历史，FromTurn 起始（含），Limit<=0 表示不限。
type GetTurnHistory struct {
	GameBaseMessage
	FromTurn int
	Limit    int
}
