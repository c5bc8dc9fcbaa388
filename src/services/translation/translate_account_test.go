package translation_test

import (
	"context"
	"errors"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/services/identity"
	"mastodonbridge/src/services/translation"
	"mastodonbridge/src/test_artefacts/fakes"
	"mastodonbridge/src/test_artefacts/stubs"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

var testApplication = domain.Application{Name: "Kroeg", Website: "https://puckipedia.com/kroeg"}

func newTranslator(lookup *fakes.EntityLookup) *translation.TranslationService {
	return translation.NewTranslationService(slog.New(slog.DiscardHandler), lookup, testApplication).
		WithClock(func() time.Time { return fixedNow })
}

var _ = Describe("TranslateAccount", func() {
	var (
		ctx    context.Context
		lookup *fakes.EntityLookup
		actor  stubs.EntityStub
	)

	BeforeEach(func() {
		ctx = context.Background()
		actor = stubs.NewActorStub("remote.example").
			WithID("https://remote.example/users/alice").
			WithPrimitive("preferredUsername", "alice").
			WithPrimitive("name", "Alice").
			WithPrimitive("summary", "<p>bio</p>").
			WithPublished(time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)).
			WithReferences("followers", "https://remote.example/users/alice/followers").
			WithReferences("following", "https://remote.example/users/alice/following").
			WithReferences("outbox", "https://remote.example/users/alice/outbox")

		lookup = fakes.NewEntityLookup(
			stubs.NewCollectionStub("https://remote.example/users/alice/followers", 10).Get(),
			stubs.NewCollectionStub("https://remote.example/users/alice/following", 0).Get(),
			stubs.NewCollectionStub("https://remote.example/users/alice/outbox", 7).Get(),
		)
	})

	When("the actor has every property", func() {
		It("should build the full account", func() {
			// ARRANGE
			avatar := "https://remote.example/avatar.png"
			entity := actor.WithReferences("icon", avatar).Ptr()

			expected := &domain.Account{
				ID:             identity.EncodeURI("https://remote.example/users/alice"),
				Username:       "alice",
				Acct:           "alice@remote.example",
				DisplayName:    "Alice",
				Locked:         false,
				CreatedAt:      time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC),
				Note:           "<p>bio</p>",
				URL:            "https://remote.example/users/alice",
				Avatar:         &avatar,
				AvatarStatic:   &avatar,
				FollowersCount: 10,
				FollowingCount: 0,
				StatusesCount:  7,
			}

			// ACT
			result, err := newTranslator(lookup).TranslateAccount(ctx, entity)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeComparableTo(expected))
		})
	})

	When("optional properties are missing", func() {
		It("should fall back to the actor id and defaults", func() {
			// ARRANGE
			entity := actor.Without("preferredUsername", "name", "summary", "published", "icon").Ptr()

			// ACT
			result, err := newTranslator(lookup).TranslateAccount(ctx, entity)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Username).To(Equal(entity.ID))
			Expect(result.DisplayName).To(Equal(entity.ID))
			Expect(result.Note).To(BeEmpty())
			Expect(result.Avatar).To(BeNil())
			Expect(result.AvatarStatic).To(BeNil())
			Expect(result.CreatedAt).To(Equal(fixedNow))
		})
	})

	Context("acct", func() {
		It("should be the bare username for a local actor", func() {
			entity := actor.Owned(true).Ptr()

			result, err := newTranslator(lookup).TranslateAccount(ctx, entity)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Acct).To(Equal("alice"))
		})

		It("should fall back to the username when the remote id has no host", func() {
			entity := actor.WithID("urn:example:alice").Owned(false).Ptr()

			result, err := newTranslator(lookup).TranslateAccount(ctx, entity)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Acct).To(Equal("alice"))
		})
	})

	Context("avatar", func() {
		It("should take the url of an embedded icon without id", func() {
			icon := entities.Entity{
				Types: []string{entities.ActivityStreamsNamespace + "Image"},
				Properties: entities.Properties{
					"url": {entities.NewReference("https://cdn.example/alice.png")},
				},
			}
			entity := actor.WithEmbedded("icon", icon).Ptr()

			result, err := newTranslator(lookup).TranslateAccount(ctx, entity)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Avatar).To(HaveValue(Equal("https://cdn.example/alice.png")))
			Expect(result.AvatarStatic).To(HaveValue(Equal("https://cdn.example/alice.png")))
		})
	})

	It("should be locked when manuallyApprovesFollowers is true", func() {
		entity := actor.WithValues("manuallyApprovesFollowers", entities.NewPrimitive(true)).Ptr()

		result, err := newTranslator(lookup).TranslateAccount(ctx, entity)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Locked).To(BeTrue())
	})

	Context("counts", func() {
		It("should look collections up locally only", func() {
			_, err := newTranslator(lookup).TranslateAccount(ctx, actor.Ptr())

			Expect(err).NotTo(HaveOccurred())
			Expect(lookup.Calls()).To(HaveLen(3))
			for _, call := range lookup.Calls() {
				Expect(call.ResolveRemote).To(BeFalse())
			}
		})

		It("should report -1 for missing, failing or uncounted collections", func() {
			// ARRANGE
			lookup = fakes.NewEntityLookup(
				stubs.NewCollectionStub("https://remote.example/users/alice/following", 3).Without("totalItems").Get(),
			).FailWith("https://remote.example/users/alice/outbox", errors.New("connection reset"))

			// ACT
			result, err := newTranslator(lookup).TranslateAccount(ctx, actor.Ptr())

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FollowersCount).To(Equal(int64(domain.UnknownCount)))
			Expect(result.FollowingCount).To(Equal(int64(domain.UnknownCount)))
			Expect(result.StatusesCount).To(Equal(int64(domain.UnknownCount)))
		})

		It("should report -1 when the actor has no collection reference", func() {
			result, err := newTranslator(lookup).TranslateAccount(ctx, actor.Without("followers").Ptr())

			Expect(err).NotTo(HaveOccurred())
			Expect(result.FollowersCount).To(Equal(int64(domain.UnknownCount)))
			Expect(result.StatusesCount).To(Equal(int64(7)))
		})

		It("should fail when the context is cancelled during the lookups", func() {
			// ARRANGE
			lookup.BlockOn("https://remote.example/users/alice/outbox")
			cancelCtx, cancel := context.WithCancel(ctx)
			time.AfterFunc(20*time.Millisecond, cancel)

			// ACT
			result, err := newTranslator(lookup).TranslateAccount(cancelCtx, actor.Ptr())

			// ASSERT
			Expect(result).To(BeNil())
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
