package entities_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mastodonbridge/src/domain/entities"
)

var _ = Describe("ParseDocument", func() {
	When("the document is a compact ActivityStreams note", func() {
		It("should expand types and separate references from literals", func() {
			// ARRANGE
			raw := []byte(`{
				"@context": "https://www.w3.org/ns/activitystreams",
				"id": "https://remote.example/notes/1",
				"type": "Note",
				"content": "<p>hello</p>",
				"attributedTo": "https://remote.example/users/alice",
				"to": ["https://www.w3.org/ns/activitystreams#Public"],
				"cc": "https://remote.example/users/alice/followers",
				"sensitive": true,
				"inReplyTo": null
			}`)

			expected := &entities.Entity{
				ID:      "https://remote.example/notes/1",
				Types:   []string{entities.TypeNote},
				IsOwner: false,
				Properties: entities.Properties{
					"content":      {entities.NewPrimitive("<p>hello</p>")},
					"attributedTo": {entities.NewReference("https://remote.example/users/alice")},
					"to":           {entities.NewReference(entities.PublicAudience)},
					"cc":           {entities.NewReference("https://remote.example/users/alice/followers")},
					"sensitive":    {entities.NewPrimitive(true)},
					"inReplyTo":    {},
				},
			}

			// ACT
			result, err := entities.ParseDocument(raw, false)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeComparableTo(expected))
		})
	})

	When("a property holds an embedded object", func() {
		It("should keep the object as a reference with its sub-object", func() {
			// ARRANGE
			raw := []byte(`{
				"id": "https://remote.example/users/alice",
				"type": ["Person"],
				"icon": {"type": "Image", "url": "https://remote.example/a.png"}
			}`)

			// ACT
			result, err := entities.ParseDocument(raw, true)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsOwner).To(BeTrue())

			icon, ok := result.Properties.First("icon")
			Expect(ok).To(BeTrue())
			Expect(icon.IsReference()).To(BeTrue())
			Expect(icon.SubObject).NotTo(BeNil())
			Expect(icon.SubObject.HasType(entities.ActivityStreamsNamespace + "Image")).To(BeTrue())
			avatar, _ := icon.SubObject.Properties.FirstLink("url")
			Expect(avatar).To(Equal("https://remote.example/a.png"))
		})
	})

	When("numbers are present", func() {
		It("should read integral numbers as int64 and keep fractions as float64", func() {
			// ARRANGE
			raw := []byte(`{"id": "https://local.example/c", "totalItems": 42, "ratio": 0.5}`)

			// ACT
			result, err := entities.ParseDocument(raw, true)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			total, ok := result.Properties.FirstInt("totalItems")
			Expect(ok).To(BeTrue())
			Expect(total).To(Equal(int64(42)))

			ratio, _ := result.Properties.First("ratio")
			Expect(ratio.Primitive).To(Equal(0.5))
			_, ok = ratio.Int()
			Expect(ok).To(BeFalse())
		})
	})

	When("a value is a JSON-LD value object", func() {
		It("should unwrap the literal", func() {
			// ARRANGE
			raw := []byte(`{"id": "https://local.example/x", "name": {"@value": "Alice", "@language": "en"}}`)

			// ACT
			result, err := entities.ParseDocument(raw, true)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			name, _ := result.Properties.FirstString("name")
			Expect(name).To(Equal("Alice"))
		})
	})

	DescribeTable("invalid documents",
		func(raw string) {
			// ACT
			result, err := entities.ParseDocument([]byte(raw), false)

			// ASSERT
			Expect(result).To(BeNil())
			Expect(err).To(MatchError(entities.ErrInvalidDocument))
		},
		Entry("not json", `{"id":`),
		Entry("not an object", `["https://local.example/x"]`),
		Entry("missing id", `{"type": "Note"}`),
	)
})

var _ = Describe("StoredEntity", func() {
	When("decoding", func() {
		It("should prefer the stored id over the document id", func() {
			// ARRANGE
			stored := entities.StoredEntity{
				ID:       "https://local.example/notes/canonical",
				IsOwner:  true,
				Document: json.RawMessage(`{"id": "https://local.example/notes/alias", "type": "Note"}`),
			}

			// ACT
			result, err := stored.Decode()

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal("https://local.example/notes/canonical"))
			Expect(result.IsOwner).To(BeTrue())
			Expect(result.HasType(entities.TypeNote)).To(BeTrue())
		})
	})
})
