package consts

const (
	// NotifyPrefEmail / NotifyPrefTelegram 用户通知渠道偏好
	NotifyPrefEmail    = "email"
	NotifyPrefTelegram = "telegram"
)

const (
	DefaultFeedPageSize = 20
	MaxFeedPageSize     = 100
)

const (
	// ViberActiveWeight 周榜计分权重，属产品策略，调整会改变榜单行为
	ViberActiveWeight   = 10
	ViberWarningWeight  = -3
	ViberInactiveWeight = -7
)
