package consts

// Analyst agent identifiers. The reasoning layer treats these as an
// opaque closed set; adding a new analyst only requires a new id here
// plus a prompt file.
const (
	GeopoliticalAnalyst = "geopolitical_analyst"
	FundamentalAnalyst  = "fundamental_analyst"
	TechnicalAnalyst    = "technical_analyst"
	SentimentAnalyst    = "sentiment_analyst"
)

// AllAnalysts returns the default analyst roster in invocation order.
func AllAnalysts() []string {
	return []string{
		GeopoliticalAnalyst,
		FundamentalAnalyst,
		TechnicalAnalyst,
		SentimentAnalyst,
	}
}
