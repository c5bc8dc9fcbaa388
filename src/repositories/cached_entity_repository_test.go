package repositories_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/repositories"
	"mastodonbridge/src/test_artefacts/comparer"
	"mastodonbridge/src/test_artefacts/fakes"
)

var _ = Describe("CachedEntityRepository", func() {
	var (
		ctx    context.Context
		source *fakes.StoredEntities
		cache  *fakes.Cache
		stored entities.StoredEntity
		logger *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.DiscardHandler)
		stored = entities.StoredEntity{
			ID:       "https://local.example/users/bob",
			IsOwner:  true,
			Document: json.RawMessage(`{"id": "https://local.example/users/bob", "type": "Person"}`),
		}
		source = fakes.NewStoredEntities(stored)
		cache = fakes.NewCache()
	})

	When("the entity is not cached", func() {
		It("should read the source and fill the cache", func() {
			repository := repositories.NewCachedEntityRepository(logger, source, cache)

			result, err := repository.GetEntity(ctx, stored.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeComparableTo(&stored, comparer.JSONDocument()))
			Eventually(cache.Len).Should(Equal(1))
		})
	})

	When("the entity is cached", func() {
		It("should not read the source again", func() {
			repository := repositories.NewCachedEntityRepository(logger, source, cache)
			_, err := repository.GetEntity(ctx, stored.ID)
			Expect(err).NotTo(HaveOccurred())
			Eventually(cache.Len).Should(Equal(1))

			result, err := repository.GetEntity(ctx, stored.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeComparableTo(&stored, comparer.JSONDocument()))
			Expect(source.Reads()).To(Equal(1))
		})
	})

	It("should fall back to the source when the cache fails", func() {
		cache.FailReads(errors.New("cluster down"))
		repository := repositories.NewCachedEntityRepository(logger, source, cache)

		result, err := repository.GetEntity(ctx, stored.ID)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.ID).To(Equal(stored.ID))
		Expect(source.Reads()).To(Equal(1))
	})

	It("should not cache misses", func() {
		repository := repositories.NewCachedEntityRepository(logger, source, cache)

		_, err := repository.GetEntity(ctx, "https://local.example/users/ghost")

		Expect(err).To(MatchError(domain.ErrEntityNotFound))
		Consistently(cache.Len).Should(BeZero())
	})

	It("should go straight to the source without a cache", func() {
		repository := repositories.NewCachedEntityRepository(logger, source, nil)

		result, err := repository.GetEntity(ctx, stored.ID)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.ID).To(Equal(stored.ID))
		Expect(repository.InvalidateByEntityIDs(ctx, []string{stored.ID})).To(Succeed())
	})

	It("should drop invalidated entries", func() {
		repository := repositories.NewCachedEntityRepository(logger, source, cache)
		_, err := repository.GetEntity(ctx, stored.ID)
		Expect(err).NotTo(HaveOccurred())
		Eventually(cache.Len).Should(Equal(1))

		err = repository.InvalidateByEntityIDs(ctx, []string{stored.ID, stored.ID})

		Expect(err).NotTo(HaveOccurred())
		Expect(cache.Len()).To(BeZero())
		Expect(cache.Deleted()).To(HaveLen(1))
	})
})
