package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/zostay/aws-rotate-key/pkg/rotate"
)

// displayError reports a failed run. It is shown no matter how verbose the
// run is.
func displayError(err error, w io.Writer) {
	color.New(color.Bold, color.FgRed).Fprint(w, "\nERROR: ")
	fmt.Fprintln(w, err.Error())

	var cwe *rotate.ConfigWriteError
	if errors.As(err, &cwe) {
		fmt.Fprintf(w,
			"Access key %s exists in AWS but its secret was not saved. Delete it in the IAM console, and reactivate the previous key if it was deactivated, before running again.\n",
			cwe.KeyID,
		)
	}

	fmt.Fprintln(w)
}

// displayWarning reports a problem that did not stop the run.
func displayWarning(text string, w io.Writer) {
	color.New(color.Bold, color.FgYellow).Fprint(w, "\nWARNING: ")
	fmt.Fprintln(w, text)
	fmt.Fprintln(w)
}

// displayResult reports the parts of a finished run the operator has to act
// on or asked to see.
func displayResult(res *rotate.Result, out, errOut io.Writer) {
	if res.DeactivationErr != nil {
		displayWarning(res.DeactivationErr.Error(), errOut)
	}

	if !res.DryRun {
		return
	}

	if len(res.Deleted) == 0 {
		fmt.Fprintf(out, "Dry run: access key %s is the only key; nothing would be deleted.\n", res.OldKeyID)
		return
	}

	fmt.Fprintf(out, "Dry run: access key %s would be kept and these keys deleted: %s\n",
		res.OldKeyID, strings.Join(res.Deleted, ", "))
}
