package analyzer

// analyzeBacklinks reports on-page outbound link hygiene as a stand-in for a
// real backlink profile. The score is a fixed neutral baseline since no
// off-page index is consulted.
func analyzeBacklinks(p *page, links LinkCountsCheck) BacklinksSEO {
	nofollowRatio := 0.0
	if links.External > 0 {
		nofollowRatio = float64(links.Nofollow) / float64(links.External) * 100
	}

	return BacklinksSEO{
		Score:            70,
		ExternalLinksOut: links.External,
		NofollowRatio:    round1(nofollowRatio),
		SponsoredLinks:   p.doc.Find(`a[rel*="sponsored"]`).Length(),
		UGCLinks:         p.doc.Find(`a[rel*="ugc"]`).Length(),
		Note:             "Full backlink profile requires Ahrefs/Moz API. Showing on-page outbound link data.",
	}
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
