package constant

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DefaultExplorerURL = "https://tonapi.io"
	TonscanTxURL       = "https://tonscan.org/tx/"

	// tonapi action types and statuses
	ActionJettonSwap     = "JettonSwap"
	ActionJettonTransfer = "JettonTransfer"
	ActionStatusOK       = "ok"

	SubjectBuySuffix = "buy"
)
