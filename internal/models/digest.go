package models

// Digest is the final aggregated output for one run, in both text (Slack
// mrkdwn) and HTML (email) form. Entries are sorted newest first.
type Digest struct {
	Date         string  `json:"date"`
	TotalEntries int     `json:"totalEntries"`
	Text         string  `json:"text"`
	HTML         string  `json:"html"`
	Entries      []Entry `json:"entries"`
}

// DeliveryResult records the outcome of sending the digest over one channel.
type DeliveryResult struct {
	Channel string `json:"channel"`
	Err     error  `json:"-"`
}

// OK reports whether the delivery succeeded.
func (r DeliveryResult) OK() bool {
	return r.Err == nil
}
