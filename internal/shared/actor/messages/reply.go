package messages

// BizResult 统一的业务处理结果。
type BizResult struct {
	Ok      bool
	Code    string
	Reason  string
	Message string
}

// JSONReply 对局 actor 的统一应答：业务结果 + JSON 负载。
// payload 用 JSON 字符串承载，避免上层包依赖对局内部类型。
type JSONReply struct {
	Result      BizResult
	PayloadJSON string
}
