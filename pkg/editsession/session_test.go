package editsession

import (
	"context"
	"errors"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"

	"epolice/pkg/cascade"
	"epolice/pkg/notify"
)

var _ = Describe("Session", func() {
	var (
		loaderCalls int32
		queue       *notify.Queue
		newResolver func() *cascade.Resolver
	)

	detail := Detail{
		Values: map[string]string{"name": "PSI Patil", "pincode": "411001"},
		Chain: []cascade.Selection{
			{Level: "country", ID: "1", Label: "India"},
			{Level: "state", ID: "5", Label: "Maharashtra"},
			{Level: "district", ID: "12", Label: "Pune"},
		},
	}

	okLoad := func(ctx context.Context, id string) (Detail, error) {
		return detail, nil
	}
	failLoad := func(ctx context.Context, id string) (Detail, error) {
		return Detail{}, errors.New("not found")
	}

	BeforeEach(func() {
		loaderCalls = 0
		queue = notify.NewQueue(0)
		levelLoader := func(ctx context.Context, parentID string) ([]cascade.Option, error) {
			atomic.AddInt32(&loaderCalls, 1)
			return []cascade.Option{{ID: "5", Label: "Maharashtra"}}, nil
		}
		newResolver = func() *cascade.Resolver {
			return cascade.NewResolver(
				cascade.Level{Name: "country", Load: levelLoader},
				cascade.Level{Name: "state", Load: levelLoader},
				cascade.Level{Name: "district", Load: levelLoader},
			)
		}
	})

	AfterEach(func() {
		queue.Close()
	})

	It("populates the form and prewarms the resolver without fetching", func() {
		s := New(okLoad, newResolver, queue)
		Expect(s.Open(context.Background(), "42")).To(Succeed())
		Expect(s.IsOpen()).To(BeTrue())
		Expect(s.Value("name")).To(Equal("PSI Patil"))
		Expect(loaderCalls).To(Equal(int32(0)))
		r := s.Resolver()
		Expect(r.Options("state")).To(ConsistOf(cascade.Option{ID: "5", Label: "Maharashtra"}))
		Expect(r.Options("district")).To(ConsistOf(cascade.Option{ID: "12", Label: "Pune"}))
		Expect(r.Selected("district")).To(Equal("12"))
	})

	It("does not open when the detail fetch fails", func() {
		s := New(failLoad, newResolver, queue)
		Expect(s.Open(context.Background(), "42")).ToNot(Succeed())
		Expect(s.IsOpen()).To(BeFalse())
		Expect(s.Resolver()).To(BeNil())
		Expect(queue.Pending()).To(HaveLen(1))
		Expect(queue.Pending()[0].Kind).To(Equal(notify.Error))
	})

	It("clears form values and resolver state on close", func() {
		s := New(okLoad, newResolver, queue)
		Expect(s.Open(context.Background(), "42")).To(Succeed())
		s.Close()
		Expect(s.IsOpen()).To(BeFalse())
		Expect(s.Resolver()).To(BeNil())
		Expect(s.Value("name")).To(BeEmpty())
		Expect(s.Values()).To(BeEmpty())
	})

	It("keeps concurrent sessions independent", func() {
		s1 := New(okLoad, newResolver, queue)
		s2 := New(okLoad, newResolver, queue)
		Expect(s1.ID()).ToNot(Equal(s2.ID()))
		Expect(s1.Open(context.Background(), "42")).To(Succeed())
		Expect(s2.Open(context.Background(), "43")).To(Succeed())
		Expect(s1.Resolver()).ToNot(BeIdenticalTo(s2.Resolver()))

		// Changing a selection in one session leaves the other untouched.
		Expect(s1.Resolver().Select("country", "2")).To(Succeed())
		Expect(s2.Resolver().Selected("state")).To(Equal("5"))
	})

	It("records user edits until closed", func() {
		s := New(okLoad, newResolver, queue)
		Expect(s.Open(context.Background(), "42")).To(Succeed())
		s.SetValue("pincode", "411002")
		Expect(s.Value("pincode")).To(Equal("411002"))
		s.Close()
		s.SetValue("pincode", "411003")
		Expect(s.Value("pincode")).To(BeEmpty())
	})
})
