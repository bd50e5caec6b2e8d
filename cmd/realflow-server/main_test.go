package main

import "testing"

func TestAddrForLocalClient(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: ":8080", want: "127.0.0.1:8080"},
		{in: "0.0.0.0:8080", want: "127.0.0.1:8080"},
		{in: "[::]:8080", want: "127.0.0.1:8080"},
		{in: "10.0.0.5:9090", want: "10.0.0.5:9090"},
		{in: "[::1]:8080", want: "[::1]:8080"},
		{in: "no-port", want: "no-port"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			if got := addrForLocalClient(tc.in); got != tc.want {
				t.Fatalf("addrForLocalClient(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
