package metrics

import "testing"

func TestComputeBasic(t *testing.T) {
	m := ComputeBasic(`// header
package main

/* block
 * continued
 */
func main() {}
`)
	keyInvariant(t, m)
	want(t, m, "loc", 7)
	want(t, m, "blank", 1)
	want(t, m, "comments", 4) // //, /*, * and */ leaders
	want(t, m, "sloc", 2)
	wantAbsent(t, m, "multi_comments")
	wantAbsent(t, m, "max_nesting")
	wantAbsent(t, m, "func_count")
	wantAbsent(t, m, "avg_cc")
	wantAbsent(t, m, "lloc")
}

func TestComputeBasicHashComments(t *testing.T) {
	m := ComputeBasic("# one\nvalue: 2\n\n# two\n")
	want(t, m, "loc", 4)
	want(t, m, "comments", 2)
	want(t, m, "blank", 1)
	want(t, m, "sloc", 1)
}

func TestComputeBasicEmpty(t *testing.T) {
	m := ComputeBasic("")
	keyInvariant(t, m)
	want(t, m, "loc", 0)
	want(t, m, "sloc", 0)
	want(t, m, "blank", 0)
	want(t, m, "comments", 0)
}
