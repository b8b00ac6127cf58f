// Package arxiv retrieves preprint full text, falling back to the Atom
// export API's summary when the PDF yields nothing.
package arxiv

import "encoding/xml"

// Feed represents the Atom answer of the arXiv export API.
type Feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []Entry  `xml:"entry"`
}

// Entry is a single result in the Atom feed.
type Entry struct {
	Summary string `xml:"summary"`
}
