package domain

import (
	"errors"
	"fmt"
	"time"

	"mastodonbridge/src/domain/entities"
)

var (
	ErrEntityNotFound = errors.New("entity not found")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")

	// Variações de "não encontrado": o chamador não precisa distingui-las.
	ErrInvalidIdentifier  = fmt.Errorf("invalid resource identifier: %w", ErrEntityNotFound)
	ErrNotAPost           = fmt.Errorf("entity is not a post: %w", ErrEntityNotFound)
	ErrNotAStatusActivity = fmt.Errorf("activity is neither a creation nor a reshare: %w", ErrEntityNotFound)
	ErrAuthorUnresolvable = fmt.Errorf("post author could not be resolved: %w", ErrEntityNotFound)
	ErrMissingContent     = fmt.Errorf("post has no content: %w", ErrEntityNotFound)

	ErrInvalidApplication = errors.New("client_name is required")
)

// UnknownCount marks a count that could not be derived, as opposed to a real zero.
const UnknownCount = -1

// ############################################################
// ################ RECURSOS DA API DE CLIENTE ################
// ############################################################

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
	VisibilityDirect   Visibility = "direct"
)

// Account é o recurso "conta" derivado de um ator.
type Account struct {
	ID             string
	Username       string
	Acct           string
	DisplayName    string
	Locked         bool
	CreatedAt      time.Time
	Note           string
	URL            string
	Avatar         *string
	AvatarStatic   *string
	FollowersCount int64
	FollowingCount int64
	StatusesCount  int64
}

// Application identifies the software that produced a status.
type Application struct {
	Name    string
	Website string
}

// Status é o recurso "status" derivado de um post ou de um reshare.
type Status struct {
	ID                 string
	URI                string
	URL                string
	Account            *Account
	InReplyToID        *string
	InReplyToAccountID *string
	Reblog             *Status
	Content            string
	CreatedAt          time.Time
	Emojis             []string
	ReblogsCount       int64
	FavouritesCount    int64
	Reblogged          bool
	Favourited         bool
	Muted              bool
	Sensitive          bool
	SpoilerText        *string
	Visibility         Visibility
	MediaAttachments   []string
	Mentions           []string
	Tags               []string
	Application        Application
	Language           *string
	Pinned             bool
}

// ############################################################
// ############### REGISTRO DE APLICAÇÕES #####################
// ############################################################

// OutOfBandRedirectURI is used when a registering application gives no redirect URI.
const OutOfBandRedirectURI = "urn:ietf:wg:oauth:2.0:oob"

type ApplicationRegistration struct {
	Name        string
	Website     string
	RedirectURI string
	Scopes      string
}

type RegisteredApplication struct {
	ID           string
	Name         string
	Website      string
	RedirectURI  string
	ClientID     string
	ClientSecret string
}

// ############################################################
// ################ SINCRONIZAÇÃO DE ENTIDADES ################
// ############################################################

// CollectionAppend records that EntityID was appended to CollectionID.
// The row id becomes the item's sequence number.
type CollectionAppend struct {
	CollectionID string
	EntityID     string
}

type SyncEntitiesRequest struct {
	Upserts   []entities.StoredEntity
	Deletions []string
	Appends   []CollectionAppend
}

func (r SyncEntitiesRequest) IsEmpty() bool {
	return len(r.Upserts) == 0 && len(r.Deletions) == 0 && len(r.Appends) == 0
}

// AffectedIDs lists every entity id whose cached copy is stale after the sync.
func (r SyncEntitiesRequest) AffectedIDs() []string {
	ids := make([]string, 0, len(r.Upserts)+len(r.Deletions))
	for _, upsert := range r.Upserts {
		ids = append(ids, upsert.ID)
	}
	return append(ids, r.Deletions...)
}
