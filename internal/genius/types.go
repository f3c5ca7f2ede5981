package genius

// Hit is a song returned by the search API.
type Hit struct {
	ID     int64
	Title  string
	Artist string
	URL    string
}

// searchResponse is the JSON response for /search.
type searchResponse struct {
	Response struct {
		Hits []struct {
			Type   string `json:"type"`
			Result struct {
				ID            int64  `json:"id"`
				Title         string `json:"title"`
				URL           string `json:"url"`
				PrimaryArtist struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}
