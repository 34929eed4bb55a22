package enrich

// SetURL exports the endpoint override for testing.
func (p *OpenAI) SetURL(url string) { p.url = url }

// SetURL exports the endpoint override for testing.
func (p *Anthropic) SetURL(url string) { p.url = url }
