package http

import (
	"time"

	"mastodonbridge/src/domain"
)

// Nomes de campos seguem a API de cliente do Mastodon.

type AccountDTO struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Acct           string    `json:"acct"`
	DisplayName    string    `json:"display_name"`
	Locked         bool      `json:"locked"`
	CreatedAt      time.Time `json:"created_at"`
	Note           string    `json:"note"`
	URL            string    `json:"url"`
	Avatar         *string   `json:"avatar"`
	AvatarStatic   *string   `json:"avatar_static"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	StatusesCount  int64     `json:"statuses_count"`
	Moved          *string   `json:"moved"`
}

type ApplicationDTO struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

type StatusDTO struct {
	ID                 string         `json:"id"`
	URI                string         `json:"uri"`
	URL                string         `json:"url"`
	Account            *AccountDTO    `json:"account"`
	InReplyToID        *string        `json:"in_reply_to_id"`
	InReplyToAccountID *string        `json:"in_reply_to_account_id"`
	Reblog             *StatusDTO     `json:"reblog"`
	Content            string         `json:"content"`
	CreatedAt          time.Time      `json:"created_at"`
	Emojis             []string       `json:"emojis"`
	ReblogsCount       int64          `json:"reblogs_count"`
	FavouritesCount    int64          `json:"favourites_count"`
	Reblogged          bool           `json:"reblogged"`
	Favourited         bool           `json:"favourited"`
	Muted              bool           `json:"muted"`
	Sensitive          bool           `json:"sensitive"`
	SpoilerText        *string        `json:"spoiler_text"`
	Visibility         string         `json:"visibility"`
	MediaAttachments   []string       `json:"media_attachments"`
	Mentions           []string       `json:"mentions"`
	Tags               []string       `json:"tags"`
	Application        ApplicationDTO `json:"application"`
	Language           *string        `json:"language"`
	Pinned             bool           `json:"pinned"`
}

// RegisterApplicationRequest aceita tanto JSON quanto formulário.
type RegisterApplicationRequest struct {
	ClientName   string `json:"client_name"`
	RedirectURIs string `json:"redirect_uris"`
	Scopes       string `json:"scopes"`
	Website      string `json:"website"`
}

type RegisteredApplicationDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Website      string `json:"website"`
	RedirectURI  string `json:"redirect_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type ErrorDTO struct {
	Error string `json:"error"`
}

func MapAccountToResponse(account *domain.Account) *AccountDTO {
	if account == nil {
		return nil
	}

	return &AccountDTO{
		ID:             account.ID,
		Username:       account.Username,
		Acct:           account.Acct,
		DisplayName:    account.DisplayName,
		Locked:         account.Locked,
		CreatedAt:      account.CreatedAt.UTC(),
		Note:           account.Note,
		URL:            account.URL,
		Avatar:         account.Avatar,
		AvatarStatic:   account.AvatarStatic,
		FollowersCount: account.FollowersCount,
		FollowingCount: account.FollowingCount,
		StatusesCount:  account.StatusesCount,
	}
}

func MapStatusToResponse(status *domain.Status) *StatusDTO {
	if status == nil {
		return nil
	}

	return &StatusDTO{
		ID:                 status.ID,
		URI:                status.URI,
		URL:                status.URL,
		Account:            MapAccountToResponse(status.Account),
		InReplyToID:        status.InReplyToID,
		InReplyToAccountID: status.InReplyToAccountID,
		Reblog:             MapStatusToResponse(status.Reblog),
		Content:            status.Content,
		CreatedAt:          status.CreatedAt.UTC(),
		Emojis:             nonNil(status.Emojis),
		ReblogsCount:       status.ReblogsCount,
		FavouritesCount:    status.FavouritesCount,
		Reblogged:          status.Reblogged,
		Favourited:         status.Favourited,
		Muted:              status.Muted,
		Sensitive:          status.Sensitive,
		SpoilerText:        status.SpoilerText,
		Visibility:         string(status.Visibility),
		MediaAttachments:   nonNil(status.MediaAttachments),
		Mentions:           nonNil(status.Mentions),
		Tags:               nonNil(status.Tags),
		Application: ApplicationDTO{
			Name:    status.Application.Name,
			Website: status.Application.Website,
		},
		Language: status.Language,
		Pinned:   status.Pinned,
	}
}

func MapRegisteredApplicationToResponse(application *domain.RegisteredApplication) *RegisteredApplicationDTO {
	return &RegisteredApplicationDTO{
		ID:           application.ID,
		Name:         application.Name,
		Website:      application.Website,
		RedirectURI:  application.RedirectURI,
		ClientID:     application.ClientID,
		ClientSecret: application.ClientSecret,
	}
}

// nonNil keeps empty lists as [] on the wire.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
