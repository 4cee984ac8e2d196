package contracts

type ITokenManagement interface {
	EstimateTokens(text string) int
	UpdateTokens(text string) int
	GetCurrentTokenCount() int
	FormatTokens(count int) string
	ClearToken()
}
