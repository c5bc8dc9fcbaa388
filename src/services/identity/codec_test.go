package identity_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/services/identity"
)

var _ = Describe("Codec", func() {
	Context("EncodeURI", func() {
		It("should escape every reserved character", func() {
			encoded := identity.EncodeURI("https://remote.example/notes/1?a=b c+d")

			Expect(encoded).To(Equal("https%3A%2F%2Fremote.example%2Fnotes%2F1%3Fa%3Db%20c%2Bd"))
		})

		It("should leave unreserved characters alone", func() {
			Expect(identity.EncodeURI("abc-._~XYZ09")).To(Equal("abc-._~XYZ09"))
		})
	})

	DescribeTable("round trip",
		func(uri string) {
			decoded, err := identity.Decode(identity.EncodeURI(uri))

			Expect(err).NotTo(HaveOccurred())
			result, isURI := decoded.URI()
			Expect(isURI).To(BeTrue())
			Expect(result).To(Equal(uri))
		},
		Entry("plain uri", "https://remote.example/users/alice"),
		Entry("uri with query and fragment", "https://remote.example/notes/1?page=2#top"),
		Entry("uri with spaces and plus", "https://remote.example/a b+c"),
		Entry("uri with unicode", "https://remote.example/users/joão"),
		Entry("uri with percent", "https://remote.example/100%25"),
	)

	Context("Decode", func() {
		It("should read non-negative integers as sequence numbers", func() {
			decoded, err := identity.Decode("42")

			Expect(err).NotTo(HaveOccurred())
			sequence, ok := decoded.Sequence()
			Expect(ok).To(BeTrue())
			Expect(sequence).To(Equal(int64(42)))
			Expect(decoded.String()).To(Equal("42"))
		})

		It("should not treat negative numbers as sequence numbers", func() {
			decoded, err := identity.Decode("-1")

			Expect(err).NotTo(HaveOccurred())
			_, ok := decoded.Sequence()
			Expect(ok).To(BeFalse())
			uri, _ := decoded.URI()
			Expect(uri).To(Equal("-1"))
		})

		It("should decode an unencoded local id to itself", func() {
			uri, err := identity.DecodeURI("https://local.example/users/bob")

			Expect(err).NotTo(HaveOccurred())
			Expect(uri).To(Equal("https://local.example/users/bob"))
		})

		DescribeTable("malformed ids",
			func(opaqueID string) {
				_, err := identity.Decode(opaqueID)

				Expect(err).To(MatchError(domain.ErrInvalidIdentifier))
				Expect(err).To(MatchError(domain.ErrEntityNotFound))
			},
			Entry("truncated escape", "https%3A%2"),
			Entry("invalid hex", "%zz"),
			Entry("empty", ""),
		)
	})

	Context("ResourceID", func() {
		It("should encode uris through String", func() {
			id := identity.FromURI("https://remote.example/notes/1")

			Expect(id.String()).To(Equal("https%3A%2F%2Fremote.example%2Fnotes%2F1"))
		})
	})
})
