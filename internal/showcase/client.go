// Package showcase симулирует загрузку готового ролика на витрину.
// Реального обращения к API витрины нет: клиент выдаёт непрозрачный
// идентификатор публикации и ссылку на неё.
package showcase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Upload описывает результат симулированной публикации.
type Upload struct {
	ID  string // Непрозрачный идентификатор публикации
	URL string // Ссылка на публикацию на витрине
}

// Client выдаёт идентификаторы публикаций для видеозаданий.
type Client struct {
	baseURL string
}

// NewClient создаёт клиент витрины с базовым адресом публикаций.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// UploadVideo "публикует" ролик и возвращает идентификатор и ссылку.
func (c *Client) UploadVideo(ctx context.Context, userUID, title string) (*Upload, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	id := uuid.New().String()
	return &Upload{
		ID:  id,
		URL: fmt.Sprintf("%s/v/%s", c.baseURL, id),
	}, nil
}
