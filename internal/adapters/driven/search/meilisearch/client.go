package meilisearch

import (
	"context"
	"time"

	ms "github.com/meilisearch/meilisearch-go"
)

// taskOutcome is the final state of a Meilisearch task.
type taskOutcome struct {
	UID     int64
	Status  string
	Code    string
	Type    string
	Message string
}

// indexAPI is the slice of the Meilisearch SDK the sink uses.
type indexAPI interface {
	AddDocuments(docs any, primaryKey string) (int64, error)
	CreateIndex(primaryKey string) (int64, error)
	UpdateSettings(rankingRules, searchable []string) (int64, error)
	WaitForTask(ctx context.Context, taskUID int64, interval time.Duration) (*taskOutcome, error)
}

// sdkIndex adapts *ms.Client to indexAPI for one index uid.
type sdkIndex struct {
	client *ms.Client
	uid    string
}

func newSDKIndex(host, apiKey, uid string, timeout time.Duration) *sdkIndex {
	return &sdkIndex{
		client: ms.NewClient(ms.ClientConfig{
			Host:    host,
			APIKey:  apiKey,
			Timeout: timeout,
		}),
		uid: uid,
	}
}

func (s *sdkIndex) AddDocuments(docs any, primaryKey string) (int64, error) {
	info, err := s.client.Index(s.uid).AddDocuments(docs, primaryKey)
	if err != nil {
		return 0, err
	}
	return info.TaskUID, nil
}

func (s *sdkIndex) CreateIndex(primaryKey string) (int64, error) {
	info, err := s.client.CreateIndex(&ms.IndexConfig{Uid: s.uid, PrimaryKey: primaryKey})
	if err != nil {
		return 0, err
	}
	return info.TaskUID, nil
}

func (s *sdkIndex) UpdateSettings(rankingRules, searchable []string) (int64, error) {
	info, err := s.client.Index(s.uid).UpdateSettings(&ms.Settings{
		RankingRules:         rankingRules,
		SearchableAttributes: searchable,
	})
	if err != nil {
		return 0, err
	}
	return info.TaskUID, nil
}

func (s *sdkIndex) WaitForTask(ctx context.Context, taskUID int64, interval time.Duration) (*taskOutcome, error) {
	task, err := s.client.WaitForTask(taskUID, ms.WaitParams{Context: ctx, Interval: interval})
	if err != nil {
		return nil, err
	}
	return &taskOutcome{
		UID:     taskUID,
		Status:  string(task.Status),
		Code:    task.Error.Code,
		Type:    task.Error.Type,
		Message: task.Error.Message,
	}, nil
}
