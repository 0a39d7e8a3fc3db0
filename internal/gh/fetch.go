package gh

import (
	"context"
	"log/slog"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/record"
)

// FetchPullRequest performs the full per-item enrichment fetch: metadata,
// comments, commits, and changed files with content at the last commit's
// ref. Partial enrichment failures degrade the affected field (empty comment
// lists, nil commit log, nil file list, empty per-file content) instead of
// failing the item; only the metadata fetch itself is fatal.
func (c *Client) FetchPullRequest(ctx context.Context, repo string, number int) (*record.PullRequest, error) {
	detail, err := c.pullRequest(ctx, repo, number)
	if err != nil {
		return nil, err
	}

	pr := &record.PullRequest{
		Number:       detail.Number,
		Title:        detail.Title,
		Body:         detail.Body,
		CreatedAt:    detail.CreatedAt,
		ClosedAt:     detail.ClosedAt,
		MergedAt:     detail.MergedAt,
		Additions:    countOrMissing(detail.Additions),
		Deletions:    countOrMissing(detail.Deletions),
		ChangedFiles: countOrMissing(detail.ChangedFiles),
		Commits:      countOrMissing(detail.Commits),
	}
	if detail.User != nil {
		pr.Author = detail.User.Login
	}

	comments, err := c.issueComments(ctx, repo, number)
	if err != nil {
		slog.Warn("gh.comments_failed", "repo", repo, "pr", number, "err", err)
		pr.Comments = []record.CommentSummary{}
		pr.Reviewers = []string{}
	} else {
		pr.Comments = make([]record.CommentSummary, 0, len(comments))
		seen := make(map[string]bool)
		pr.Reviewers = []string{}
		for _, cm := range comments {
			summary := record.CommentSummary{CreatedAt: cm.CreatedAt}
			if cm.User != nil {
				summary.User = cm.User.Login
				if !seen[cm.User.Login] {
					seen[cm.User.Login] = true
					pr.Reviewers = append(pr.Reviewers, cm.User.Login)
				}
			}
			pr.Comments = append(pr.Comments, summary)
		}
	}

	commits, commitsErr := c.commits(ctx, repo, number)
	if commitsErr != nil {
		slog.Warn("gh.commits_failed", "repo", repo, "pr", number, "err", commitsErr)
		pr.CommitLog = nil
	} else {
		pr.CommitLog = make([]record.CommitSummary, 0, len(commits))
		for _, cm := range commits {
			summary := record.CommitSummary{}
			if cm.Author != nil {
				summary.Author = cm.Author.Login
			}
			if cm.Commit.Committer != nil {
				summary.Timestamp = cm.Commit.Committer.Date
			}
			pr.CommitLog = append(pr.CommitLog, summary)
		}
	}

	// Content snapshots are taken at the last commit of the pull request,
	// falling back to the advertised head when the commit list failed.
	ref := detail.Head.SHA
	if commitsErr == nil && len(commits) > 0 {
		ref = commits[len(commits)-1].SHA
	}

	files, err := c.changedFiles(ctx, repo, number)
	if err != nil {
		slog.Warn("gh.files_failed", "repo", repo, "pr", number, "err", err)
		pr.Files = nil
		return pr, nil
	}
	pr.Files = make([]*record.File, 0, len(files))
	for _, f := range files {
		file := &record.File{Filename: f.Filename}
		content, err := c.fileContent(ctx, repo, f.Filename, ref)
		if err != nil {
			slog.Warn("gh.content_failed", "repo", repo, "pr", number, "path", f.Filename, "err", err)
		} else {
			file.Content = string(content)
		}
		pr.Files = append(pr.Files, file)
	}
	return pr, nil
}

// countOrMissing maps a count the host omitted to -1.
func countOrMissing(v *int) int {
	if v == nil {
		return -1
	}
	return *v
}
