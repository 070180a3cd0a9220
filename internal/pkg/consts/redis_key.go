package consts

const (
	UserInfoKey   = "user:info:"
	OAuthStateKey = "oauth:state:"
)

const (
	ViberSelectLock = "lock:viber:select"
	CheckRunLock    = "lock:check:run"
)
