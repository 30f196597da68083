package auth

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvSource(t *testing.T) {
	t.Setenv("CLIST_SESSIONID", "abc")
	t.Setenv("CLIST_CSRFTOKEN", "")

	got, err := EnvSource{}.Cookies(context.Background(), Clist)
	if err != nil {
		t.Fatalf("Cookies() error = %v", err)
	}
	if diff := cmp.Diff(map[string]string{"sessionid": "abc"}, got); diff != "" {
		t.Errorf("Cookies() mismatch (-want +got):\n%s", diff)
	}

	got, err = EnvSource{}.Cookies(context.Background(), "unknown")
	if err != nil || got != nil {
		t.Errorf("Cookies(unknown) = %v, %v; want nil, nil", got, err)
	}
}

func TestChainSources(t *testing.T) {
	t.Setenv("CLIST_SESSIONID", "")
	t.Setenv("CLIST_CSRFTOKEN", "")

	static := NewStaticSource(map[string]string{"sessionid": "static"})
	got, err := ChainSources(context.Background(), Clist, EnvSource{}, static)
	if err != nil {
		t.Fatalf("ChainSources() error = %v", err)
	}
	if got["sessionid"] != "static" {
		t.Errorf("ChainSources() = %v, want static cookies", got)
	}

	got, err = ChainSources(context.Background(), Clist, NewStaticSource(nil))
	if err != nil || got != nil {
		t.Errorf("ChainSources(empty) = %v, %v; want nil, nil", got, err)
	}
}

func TestStaticSourceCopies(t *testing.T) {
	src := NewStaticSource(map[string]string{"a": "1"})
	got, _ := src.Cookies(context.Background(), Clist) //nolint:errcheck // never fails
	got["a"] = "changed"
	again, _ := src.Cookies(context.Background(), Clist) //nolint:errcheck // never fails
	if again["a"] != "1" {
		t.Error("StaticSource returned a shared map")
	}
}

func TestJar(t *testing.T) {
	jar, err := Jar(context.Background(), Clist, NewStaticSource(map[string]string{"sessionid": "s1", "csrftoken": "c1"}))
	if err != nil {
		t.Fatalf("Jar() error = %v", err)
	}
	if jar == nil {
		t.Fatal("Jar() = nil")
	}
	u, _ := url.Parse("https://clist.by/coder/x/") //nolint:errcheck // constant URL
	if n := len(jar.Cookies(u)); n != 2 {
		t.Errorf("jar has %d cookies for clist.by, want 2", n)
	}

	jar, err = Jar(context.Background(), Clist, NewStaticSource(nil))
	if err != nil || jar != nil {
		t.Errorf("Jar(no cookies) = %v, %v; want nil, nil", jar, err)
	}
}

func TestEnvVarsForSite(t *testing.T) {
	want := []string{"CLIST_CSRFTOKEN", "CLIST_SESSIONID"}
	if diff := cmp.Diff(want, EnvVarsForSite(Clist)); diff != "" {
		t.Errorf("EnvVarsForSite() mismatch (-want +got):\n%s", diff)
	}
}
