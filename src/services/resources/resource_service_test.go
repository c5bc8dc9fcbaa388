package resources_test

import (
	"context"
	"errors"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/services/identity"
	"mastodonbridge/src/services/resources"
	"mastodonbridge/src/services/translation"
	"mastodonbridge/src/test_artefacts/comparer"
	"mastodonbridge/src/test_artefacts/fakes"
	"mastodonbridge/src/test_artefacts/stubs"
)

const (
	aliceID  = "https://remote.example/users/alice"
	noteID   = "https://remote.example/notes/1"
	createID = "https://remote.example/activities/create-1"
)

var _ = Describe("ResourceService", func() {
	var (
		ctx     context.Context
		lookup  *fakes.EntityLookup
		service *resources.ResourceService
	)

	BeforeEach(func() {
		ctx = context.Background()

		alice := stubs.NewActorStub("remote.example").
			WithID(aliceID).
			WithPrimitive("preferredUsername", "alice")
		note := stubs.NewNoteStub(aliceID).WithID(noteID)
		create := stubs.NewActivityStub("Create", aliceID, noteID).WithID(createID)

		lookup = fakes.NewEntityLookup(alice.Get(), note.Get(), create.Get()).
			AddItem(42, create.Get()).
			AddItem(43, stubs.NewActivityStub("Like", aliceID, noteID).Get())

		logger := slog.New(slog.DiscardHandler)
		translator := translation.NewTranslationService(logger, lookup, domain.Application{Name: "Kroeg"})
		service = resources.NewResourceService(logger, lookup, lookup, translator)
	})

	Context("GetAccount", func() {
		It("should resolve an encoded actor uri with remote fetch allowed", func() {
			result, err := service.GetAccount(ctx, identity.EncodeURI(aliceID))

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal(identity.EncodeURI(aliceID)))
			Expect(result.Username).To(Equal("alice"))
			Expect(lookup.Calls()[0]).To(Equal(fakes.LookupCall{ID: aliceID, ResolveRemote: true}))
		})

		It("should accept an unencoded id", func() {
			result, err := service.GetAccount(ctx, aliceID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Username).To(Equal("alice"))
		})

		It("should return not found for an unknown actor", func() {
			result, err := service.GetAccount(ctx, identity.EncodeURI("https://remote.example/users/ghost"))

			Expect(result).To(BeNil())
			Expect(err).To(MatchError(domain.ErrEntityNotFound))
		})

		It("should return not found for a malformed id", func() {
			result, err := service.GetAccount(ctx, "%zz")

			Expect(result).To(BeNil())
			Expect(err).To(MatchError(domain.ErrInvalidIdentifier))
		})

		It("should propagate store failures", func() {
			failure := errors.New("pool exhausted")
			lookup.FailWith(aliceID, failure)

			result, err := service.GetAccount(ctx, identity.EncodeURI(aliceID))

			Expect(result).To(BeNil())
			Expect(err).To(MatchError(failure))
		})
	})

	Context("GetStatus", func() {
		It("should resolve a sequence number through the collection", func() {
			result, err := service.GetStatus(ctx, "42")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal("42"))
			Expect(result.URI).To(Equal(noteID))
		})

		It("should produce the same content for the encoded uri of the post", func() {
			bySequence, err := service.GetStatus(ctx, "42")
			Expect(err).NotTo(HaveOccurred())

			byURI, err := service.GetStatus(ctx, identity.EncodeURI(noteID))
			Expect(err).NotTo(HaveOccurred())

			Expect(byURI.ID).To(Equal(identity.EncodeURI(noteID)))
			Expect(byURI).To(BeComparableTo(bySequence,
				comparer.IgnoreFieldsFor[domain.Status]("ID"),
				comparer.TimeWithinTolerance(time.Second),
			))
		})

		It("should return not found for an unknown sequence number", func() {
			result, err := service.GetStatus(ctx, "999")

			Expect(result).To(BeNil())
			Expect(err).To(MatchError(domain.ErrEntityNotFound))
		})

		It("should filter items that are not status activities", func() {
			result, err := service.GetStatus(ctx, "43")

			Expect(result).To(BeNil())
			Expect(err).To(MatchError(domain.ErrNotAStatusActivity))
		})

		It("should never look up a negative sequence in the collection", func() {
			result, err := service.GetStatus(ctx, "-1")

			Expect(result).To(BeNil())
			Expect(err).To(MatchError(domain.ErrEntityNotFound))
			Expect(lookup.Calls()).To(ConsistOf(fakes.LookupCall{ID: "-1", ResolveRemote: true}))
		})
	})

	Context("RegisterApplication", func() {
		It("should issue fresh credentials", func() {
			first, err := service.RegisterApplication(ctx, domain.ApplicationRegistration{Name: "Tusky", Website: "https://tusky.app"})
			Expect(err).NotTo(HaveOccurred())
			second, err := service.RegisterApplication(ctx, domain.ApplicationRegistration{Name: "Tusky"})
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Name).To(Equal("Tusky"))
			Expect(first.Website).To(Equal("https://tusky.app"))
			Expect(first.RedirectURI).To(Equal(domain.OutOfBandRedirectURI))
			Expect(first.ClientID).To(HaveLen(32))
			Expect(first.ClientSecret).To(HaveLen(64))
			Expect(first.ClientID).NotTo(Equal(second.ClientID))
			Expect(first.ID).NotTo(Equal(second.ID))
		})

		It("should require a name", func() {
			result, err := service.RegisterApplication(ctx, domain.ApplicationRegistration{Name: "  "})

			Expect(result).To(BeNil())
			Expect(err).To(MatchError(domain.ErrInvalidApplication))
		})
	})
})
