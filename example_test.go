package emailverifier_test

import (
	"context"
	"fmt"
	"time"

	emailverifier "github.com/sanketagarwal/email-verifier"
	"github.com/sanketagarwal/email-verifier/internal/dnscache"
)

// staticResolver treats example.com as the only domain with a mail server.
type staticResolver struct{}

func (staticResolver) LookupMX(_ context.Context, domain string) ([]string, error) {
	if domain == "example.com" {
		return []string{"mx.example.com"}, nil
	}
	return nil, nil
}

func (staticResolver) LookupA(context.Context, string) ([]string, error) { return nil, nil }

func ExampleVerifier_VerifyBatch() {
	v := emailverifier.New().WithResolver(staticResolver{})

	report, _ := v.VerifyBatch(context.Background(), []string{
		"alice@example.com",
		"invalid",
		"bob@gmial.com",
		"temp@mailinator.com",
		"support@example.com",
		"carol@nowhere.example",
	})

	for _, r := range report.Results {
		fmt.Printf("%-22s %-7s %s\n", r.Email, r.Status, r.Reason)
	}
	fmt.Printf("%+v\n", report.Summary)
	// Output:
	// alice@example.com      valid   all checks passed
	// invalid                invalid missing @ symbol
	// bob@gmial.com          risky   possible typo in domain
	// temp@mailinator.com    invalid disposable/temporary email address
	// support@example.com    risky   role-based email address (generic)
	// carol@nowhere.example  invalid domain has no mail server
	// {Total:6 Valid:1 Invalid:3 Risky:2}
}

func ExampleVerifier_Verify() {
	v := emailverifier.New().WithResolver(staticResolver{})

	out, _ := v.Verify(context.Background(), "user@gmial.com")
	fmt.Println(out.Status, out.Suggestion)
	// Output: risky user@gmail.com
}

func ExampleVerifier_WithSharedCache() {
	v := emailverifier.New().
		WithResolver(staticResolver{}).
		WithSharedCache(dnscache.New(time.Hour, 10000))

	first, _ := v.VerifyBatch(context.Background(), []string{"a@example.com"})
	second, _ := v.VerifyBatch(context.Background(), []string{"b@example.com"})
	fmt.Println(first.Lookups, second.Lookups)
	// Output: 1 0
}

func ExampleBatchOptions() {
	v := emailverifier.New().WithResolver(staticResolver{})

	_, _ = v.VerifyBatch(context.Background(),
		[]string{"a@example.com", "b@example.com", "bad"},
		emailverifier.BatchOptions{
			GroupSize: 10,
			Progress: func(done, total int) {
				fmt.Printf("%d/%d\n", done, total)
			},
		})
	// Output:
	// 1/3
	// 3/3
}

func ExampleCheckBatchSize() {
	fmt.Println(emailverifier.CheckBatchSize(0, 100))
	fmt.Println(emailverifier.CheckBatchSize(150, 100))
	// Output:
	// emailverifier: batch is empty
	// emailverifier: batch too large: 150 addresses, maximum is 100
}
