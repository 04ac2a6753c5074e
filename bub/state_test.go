package bub

import "testing"

func TestStep(t *testing.T) {
	cases := []struct {
		name string
		in   transition
		want State
	}{
		{"head continues into body", transition{Head, 2, 5, u64p(10)}, Body},
		{"body continues", transition{Body, 3, 5, u64p(10)}, Body},
		{"boundary to next head", transition{Body, 5, 5, u64p(5)}, Head},
		{"boundary to stopped", transition{Body, 5, 5, u64p(10)}, Stopped},
		{"boundary to ended", transition{Body, 5, 5, nil}, Ended},
		{"stopped waits", transition{Stopped, 4, 0, u64p(10)}, Stopped},
		{"stopped resumes", transition{Stopped, 10, 0, u64p(10)}, Head},
		{"ended stays ended", transition{Ended, 99, 0, nil}, Ended},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, _ := step(c.in)
			if got != c.want {
				t.Errorf("step(%+v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestStepSetsHeadAbsoluteFrame(t *testing.T) {
	_, head := step(transition{Body, 5, 5, u64p(5)})
	if head != 5 {
		t.Errorf("headAbsoluteFrame = %d, want 5", head)
	}
}
