package chat_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/i4ybrid/trip-planner/internal/chat"
)

func TestChat(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chat Suite")
}

var _ = Describe("ParseMentions", func() {
	targets := []chat.MentionTarget{
		{UserID: 1, DisplayName: "Alice"},
		{UserID: 2, DisplayName: "Bob"},
		{UserID: 3, DisplayName: "Mary"},
		{UserID: 4, DisplayName: "Mary Ann"},
	}

	It("resolves a simple mention", func() {
		Expect(chat.ParseMentions("hey @Bob are you in?", targets)).To(Equal([]int64{2}))
	})

	It("matches case-insensitively", func() {
		Expect(chat.ParseMentions("HEY @bOb", targets)).To(Equal([]int64{2}))
	})

	It("prefers the longest matching display name", func() {
		Expect(chat.ParseMentions("@Mary Ann what do you think?", targets)).To(Equal([]int64{4}))
	})

	It("still matches the shorter name when the longer one does not fit", func() {
		Expect(chat.ParseMentions("@Mary can you book it?", targets)).To(Equal([]int64{3}))
	})

	It("requires a word boundary after the name", func() {
		Expect(chat.ParseMentions("email @Bobby instead", targets)).To(BeEmpty())
	})

	It("matches a mention at the end of the body", func() {
		Expect(chat.ParseMentions("thanks @Alice", targets)).To(Equal([]int64{1}))
	})

	It("returns users in first-mention order without duplicates", func() {
		got := chat.ParseMentions("@Bob @Alice @Bob again", targets)
		Expect(got).To(Equal([]int64{2, 1}))
	})

	It("expands @everyone to all targets", func() {
		got := chat.ParseMentions("@everyone meet at 9", targets)
		Expect(got).To(Equal([]int64{1, 2, 3, 4}))
	})

	It("does not duplicate users already mentioned before @everyone", func() {
		got := chat.ParseMentions("@Bob then @everyone", targets)
		Expect(got).To(Equal([]int64{2, 1, 3, 4}))
	})

	It("ignores unmatched mentions", func() {
		Expect(chat.ParseMentions("ping @Zelda", targets)).To(BeEmpty())
	})

	It("returns nil for an empty body or no targets", func() {
		Expect(chat.ParseMentions("", targets)).To(BeNil())
		Expect(chat.ParseMentions("@Bob", nil)).To(BeNil())
	})
})

var _ = Describe("MentionsEveryone", func() {
	It("detects the sentinel anywhere in the body", func() {
		Expect(chat.MentionsEveryone("reminder for @everyone!")).To(BeTrue())
	})

	It("is case-insensitive", func() {
		Expect(chat.MentionsEveryone("@EVERYONE")).To(BeTrue())
	})

	It("requires a word boundary", func() {
		Expect(chat.MentionsEveryone("@everyones favorite spot")).To(BeFalse())
	})

	It("is false without the sentinel", func() {
		Expect(chat.MentionsEveryone("no mentions here")).To(BeFalse())
	})
})
