package gh

// PRSummary is one listing entry: enough to filter without the full fetch.
type PRSummary struct {
	Number   int    `json:"number"`
	MergedAt string `json:"merged_at"`
}

type prDetail struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	ClosedAt  string `json:"closed_at"`
	MergedAt  string `json:"merged_at"`

	// Count fields are pointers so an omitted field is distinguishable
	// from zero; omitted becomes -1 in the record.
	Additions    *int `json:"additions"`
	Deletions    *int `json:"deletions"`
	ChangedFiles *int `json:"changed_files"`
	Commits      *int `json:"commits"`

	User *struct {
		Login string `json:"login"`
	} `json:"user"`
	Head struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

type issueComment struct {
	User *struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt string `json:"created_at"`
}

type commitEntry struct {
	SHA    string `json:"sha"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	Commit struct {
		Committer *struct {
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

type changedFile struct {
	Filename string `json:"filename"`
}

type contentsPayload struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}
