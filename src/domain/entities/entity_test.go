package entities_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mastodonbridge/src/domain/entities"
)

var _ = Describe("Entity", func() {
	Context("Host", func() {
		It("should return the hostname without port", func() {
			entity := entities.Entity{ID: "https://remote.example:8443/users/alice"}

			host, ok := entity.Host()

			Expect(ok).To(BeTrue())
			Expect(host).To(Equal("remote.example"))
		})

		It("should fail for ids without a host", func() {
			entity := entities.Entity{ID: "urn:uuid:1234"}

			_, ok := entity.Host()

			Expect(ok).To(BeFalse())
		})
	})

	Context("Properties", func() {
		var props entities.Properties

		BeforeEach(func() {
			props = entities.Properties{
				"name":      {entities.NewPrimitive("Alice"), entities.NewPrimitive("Other")},
				"url":       {entities.NewPrimitive("https://remote.example/@alice")},
				"followers": {entities.NewReference("https://remote.example/users/alice/followers")},
				"flags":     {entities.NewPrimitive(false), entities.NewPrimitive(true)},
				"empty":     {},
			}
		})

		It("should return the first value in order", func() {
			name, ok := props.FirstString("name")
			Expect(ok).To(BeTrue())
			Expect(name).To(Equal("Alice"))
		})

		It("should treat a key with no values as missing", func() {
			Expect(props.Has("empty")).To(BeFalse())
			Expect(props.Has("missing")).To(BeFalse())
			_, ok := props.First("empty")
			Expect(ok).To(BeFalse())
		})

		It("should not read a reference as a string", func() {
			_, ok := props.FirstString("followers")
			Expect(ok).To(BeFalse())
		})

		It("should accept either form as a link", func() {
			url, _ := props.FirstLink("url")
			followers, _ := props.FirstLink("followers")
			Expect(url).To(Equal("https://remote.example/@alice"))
			Expect(followers).To(Equal("https://remote.example/users/alice/followers"))
		})

		It("should find true among several booleans", func() {
			Expect(props.AnyTrue("flags")).To(BeTrue())
			Expect(props.AnyTrue("name")).To(BeFalse())
		})

		It("should never match an empty id", func() {
			Expect(props.ContainsID("followers", "https://remote.example/users/alice/followers")).To(BeTrue())
			Expect(props.ContainsID("followers", "")).To(BeFalse())
		})
	})

	DescribeTable("ExpandType",
		func(name string, expected string) {
			Expect(entities.ExpandType(name)).To(Equal(expected))
		},
		Entry("short name", "Note", entities.TypeNote),
		Entry("prefixed name", "as:Announce", entities.TypeAnnounce),
		Entry("full uri", "https://w3id.org/security#Key", "https://w3id.org/security#Key"),
	)
})
