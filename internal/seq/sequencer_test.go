package seq_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/algoviz/internal/seq"
)

var _ = Describe("Sequencer", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	})

	AfterEach(func() {
		cancel()
	})

	Describe("New", func() {
		It("rejects an empty array", func() {
			s, err := seq.New(countState{}, countStep)
			Expect(s).To(BeNil())
			Expect(errors.Is(err, seq.ErrValidation)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("Generate or enter an array first."))
		})

		It("starts Idle at step zero", func() {
			s, err := seq.New(newCount(3), countStep)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Status()).To(Equal(seq.Idle))
			Expect(s.Frame().Step).To(Equal(0))
			Expect(s.ID()).NotTo(BeEmpty())
		})

		It("does not alias the caller's inputs", func() {
			in := newCount(3)
			s, err := seq.New(in, countStep)
			Expect(err).NotTo(HaveOccurred())
			in.Items[0] = 999
			Expect(s.Snapshot().State.Items[0]).To(Equal(0))
		})

		It("clamps the delay", func() {
			s, _ := seq.New(newCount(2), countStep, seq.WithDelay(time.Hour))
			Expect(s.Delay()).To(Equal(seq.MaxDelay))
			s, _ = seq.New(newCount(2), countStep, seq.WithDelay(0))
			Expect(s.Delay()).To(Equal(seq.MinDelay))
		})
	})

	Describe("a full run", func() {
		It("completes with one step per element", func() {
			rec := seq.NewRecorder()
			s, _ := seq.New(newCount(5), countStep, seq.WithSleeper(seq.NoSleep))
			s.Subscribe(rec)

			Expect(s.Start(ctx)).To(Succeed())
			Expect(s.Wait(ctx)).To(Succeed())

			Expect(s.Status()).To(Equal(seq.Completed))
			Expect(s.Snapshot().Step).To(Equal(5))

			steps := rec.Steps()
			Expect(steps).To(HaveLen(5))
			for i, f := range steps {
				Expect(f.Step).To(Equal(i + 1))
				Expect(f.State.(countState).Mark).To(Equal(i))
			}
			Expect(steps[4].Status).To(Equal(seq.Completed))
		})

		It("restarts from step zero after completion", func() {
			s, _ := seq.New(newCount(2), countStep, seq.WithSleeper(seq.NoSleep))
			Expect(s.Start(ctx)).To(Succeed())
			Expect(s.Wait(ctx)).To(Succeed())
			Expect(s.Start(ctx)).To(Succeed())
			Expect(s.Wait(ctx)).To(Succeed())
			Expect(s.Status()).To(Equal(seq.Completed))
			Expect(s.Snapshot().Step).To(Equal(2))
		})
	})

	Describe("control while running", func() {
		var (
			g gate
			s *seq.Sequencer[countState]
		)

		BeforeEach(func() {
			g = make(gate)
			var err error
			s, err = seq.New(newCount(4), countStep, seq.WithSleeper(g.sleep))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Start(ctx)).To(Succeed())
			Eventually(func() int { return s.Snapshot().Step }).Should(Equal(1))
		})

		It("refuses a second start", func() {
			err := s.Start(ctx)
			var ise *seq.IllegalStateError
			Expect(errors.As(err, &ise)).To(BeTrue())
			Expect(ise.Status).To(Equal(seq.Running))
		})

		It("rejects a speed change", func() {
			Expect(errors.Is(s.SetDelay(time.Second), seq.ErrIllegalState)).To(BeTrue())
		})

		It("commits no step while paused", func() {
			Expect(s.Pause()).To(Succeed())
			g.tick()
			g.tick()
			Expect(s.Snapshot().Step).To(Equal(1))
			Expect(s.Status()).To(Equal(seq.Paused))

			Expect(s.SetDelay(time.Second)).To(Succeed())
			Expect(s.Resume()).To(Succeed())
			g.tick()
			Eventually(func() int { return s.Snapshot().Step }).Should(Equal(2))
		})

		It("steps once while paused", func() {
			Expect(s.Pause()).To(Succeed())
			Expect(s.StepOnce()).To(Succeed())
			Expect(s.Snapshot().Step).To(Equal(2))
			Expect(s.Snapshot().State.Mark).To(Equal(1))
		})

		It("reaches the same final state as an uninterrupted run", func() {
			Expect(s.Pause()).To(Succeed())
			g.tick()
			Expect(s.Resume()).To(Succeed())
			for s.Status() == seq.Running {
				select {
				case g <- struct{}{}:
				case <-time.After(10 * time.Millisecond):
				}
			}
			Expect(s.Wait(ctx)).To(Succeed())
			Expect(s.Status()).To(Equal(seq.Completed))

			want, err := seq.Drain(newCount(4), countStep, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Snapshot().Step).To(Equal(len(want)))
			final, _ := seq.Final(want)
			Expect(s.Snapshot().State).To(Equal(final))
		})

		It("cancels promptly and clears highlights", func() {
			Expect(s.Cancel()).To(Succeed())
			snap := s.Snapshot()
			Expect(snap.Status).To(Equal(seq.Cancelled))
			Expect(snap.State.Mark).To(Equal(-1))
			Expect(snap.Step).To(Equal(1))
			Expect(s.Wait(ctx)).To(Succeed())
		})

		It("resets to the original inputs", func() {
			Expect(s.Reset()).To(Succeed())
			snap := s.Snapshot()
			Expect(snap.Status).To(Equal(seq.Idle))
			Expect(snap.Step).To(Equal(0))
			Expect(snap.State).To(Equal(newCount(4)))
		})

		It("clears the inputs so the next start fails", func() {
			Expect(s.Clear()).To(Succeed())
			Expect(s.Status()).To(Equal(seq.Idle))
			Expect(s.Snapshot().State.Items).To(BeEmpty())
			Expect(errors.Is(s.Start(ctx), seq.ErrValidation)).To(BeTrue())
		})

		It("cancels when the parent context ends", func() {
			cancel()
			Eventually(s.Status).Should(Equal(seq.Cancelled))
		})
	})

	Describe("illegal transitions", func() {
		It("rejects pause, resume and step from Idle", func() {
			s, _ := seq.New(newCount(2), countStep)
			Expect(errors.Is(s.Pause(), seq.ErrIllegalState)).To(BeTrue())
			Expect(errors.Is(s.Resume(), seq.ErrIllegalState)).To(BeTrue())
			Expect(errors.Is(s.StepOnce(), seq.ErrIllegalState)).To(BeTrue())
			Expect(s.Status()).To(Equal(seq.Idle))
		})
	})

	Describe("Load", func() {
		It("replaces the inputs while idle", func() {
			s, _ := seq.New(newCount(2), countStep)
			Expect(s.Load(newCount(6))).To(Succeed())
			Expect(s.Snapshot().State.Items).To(HaveLen(6))
			Expect(errors.Is(s.Load(countState{}), seq.ErrValidation)).To(BeTrue())
		})
	})

	Describe("Subscribe", func() {
		It("stops delivering after unsubscribe", func() {
			rec := seq.NewRecorder()
			s, _ := seq.New(newCount(3), countStep, seq.WithSleeper(seq.NoSleep))
			unsub := s.Subscribe(rec)
			unsub()
			unsub()
			Expect(s.Start(ctx)).To(Succeed())
			Expect(s.Wait(ctx)).To(Succeed())
			Expect(rec.Frames()).To(BeEmpty())
		})
	})
})

var _ = Describe("Drain", func() {
	It("returns every transition", func() {
		ts, err := seq.Drain(newCount(3), countStep, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(ts).To(HaveLen(3))
		Expect(ts[2].Done).To(BeTrue())
	})

	It("stops at the limit", func() {
		_, err := seq.Drain(newCount(10), countStep, 4)
		Expect(errors.Is(err, seq.ErrStepLimit)).To(BeTrue())
	})
})
