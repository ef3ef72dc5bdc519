package service

import "FourEmpires/modules/kit/errx"

// Code 应用层错误码（对外协议语义）。
type Code = errx.Code

const (
	CodeGameNotFound    Code = "GAME_NOT_FOUND"
	CodeGameExists      Code = "GAME_ALREADY_EXISTS"
	CodePlayerCount     Code = "INVALID_PLAYER_COUNT"
	CodePlayerNotInGame Code = "PLAYER_NOT_IN_GAME"
	CodeGameEnded       Code = "GAME_ENDED"
	CodeBadActionBatch  Code = "INVALID_ACTION_BATCH"
	// CodeInternalServer 复用 kit 的统一系统码。
	CodeInternalServer Code = errx.CodeInternal
	// CodeUnavailable 复用 kit 的统一系统码。
	CodeUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

// 常用哨兵错误：禁止直接修改，派生请用 WithData/WithCause。
var (
	ErrGameNotFound    = errx.NewBiz(CodeGameNotFound, "game not found")
	ErrGameExists      = errx.NewBiz(CodeGameExists, "game already exists")
	ErrPlayerCount     = errx.NewBiz(CodePlayerCount, "games require 2-8 players")
	ErrPlayerNotInGame = errx.NewBiz(CodePlayerNotInGame, "player not in game")
	ErrGameEnded       = errx.NewBiz(CodeGameEnded, "game already ended")
	ErrBadActionBatch  = errx.NewBiz(CodeBadActionBatch, "invalid action batch")
	ErrInternalServer  = errx.ErrInternal
	ErrUnavailable     = errx.ErrUnavailable
)
