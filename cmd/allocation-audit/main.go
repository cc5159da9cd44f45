// Command allocation-audit opens the configured store and verifies the
// invariants the workflow engine maintains: the flat inventory ledger, the
// one-active-application rule, and officer roster capacity. It prints a
// summary and exits non-zero when any invariant is broken.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"btocore/internal/core"
	"btocore/pkg/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("allocation-audit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "print every finding, not just totals")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := core.OpenPersistentStore(core.NewDefaultRulesEngine())
	if err != nil {
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return 1
	}

	findings := audit(store)
	fmt.Fprintf(stdout, "persons=%d projects=%d applications=%d forms=%d enquiries=%d\n",
		len(store.ListPersons()), len(store.ListProjects()), len(store.ListApplications()),
		len(store.ListRegistrationForms()), len(store.ListEnquiries()))
	if len(findings) == 0 {
		fmt.Fprintln(stdout, "no invariant violations")
		return 0
	}
	fmt.Fprintf(stdout, "%d invariant violation(s)\n", len(findings))
	if *verbose {
		for _, f := range findings {
			fmt.Fprintln(stdout, "  "+f)
		}
	}
	return 1
}

func audit(store domain.PersistentStore) []string {
	var findings []string

	for _, project := range store.ListProjects() {
		for flatType, capacity := range project.Capacity {
			remaining := project.Remaining[flatType]
			if remaining < 0 || remaining > capacity {
				findings = append(findings, fmt.Sprintf(
					"project %s: %s remaining %d outside [0,%d]", project.ID, flatType, remaining, capacity))
			}
		}
		if len(project.OfficerIDs) > project.OfficerSlotCapacity {
			findings = append(findings, fmt.Sprintf(
				"project %s: roster %d exceeds %d slots", project.ID, len(project.OfficerIDs), project.OfficerSlotCapacity))
		}
	}

	active := map[string]int{}
	for _, application := range store.ListApplications() {
		if application.Active() {
			active[application.ApplicantID]++
		}
	}
	for applicantID, count := range active {
		if count > 1 {
			findings = append(findings, fmt.Sprintf(
				"applicant %s: %d active applications", applicantID, count))
		}
	}

	return findings
}
