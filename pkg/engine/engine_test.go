package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pakt-dev/pakt/pkg/download"
	"github.com/pakt-dev/pakt/pkg/engine"
	mock_engine "github.com/pakt-dev/pakt/pkg/engine/mocks"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/history"
	"github.com/pakt-dev/pakt/pkg/model"
)

type harness struct {
	db        *mock_engine.MockPackageDB
	installer *mock_engine.MockInstaller
	dl        *mock_engine.MockDownloader
	mirrors   *mock_engine.MockMirrorResolver
	hist      *mock_engine.MockHistoryStore
	confirmer *mock_engine.MockConfirmer
	eng       *engine.Engine
}

func newHarness(t *testing.T) *harness {
	ctrl := gomock.NewController(t)
	h := &harness{
		db:        mock_engine.NewMockPackageDB(ctrl),
		installer: mock_engine.NewMockInstaller(ctrl),
		dl:        mock_engine.NewMockDownloader(ctrl),
		mirrors:   mock_engine.NewMockMirrorResolver(ctrl),
		hist:      mock_engine.NewMockHistoryStore(ctrl),
		confirmer: mock_engine.NewMockConfirmer(ctrl),
	}
	h.eng = &engine.Engine{
		DB:         h.db,
		Installer:  h.installer,
		Downloader: h.dl,
		Mirrors:    h.mirrors,
		History:    h.hist,
		Confirmer:  h.confirmer,
		ArchiveDir: "/var/cache/pakt/archives",
		Command:    []string{"install", "htop"},
	}
	return h
}

func installMark(name, version string, size int64) *model.MarkedPackage {
	ref := model.PackageRef{Name: name, Arch: "amd64", Version: version}
	return &model.MarkedPackage{
		Ref:          ref,
		Marked:       model.MarkInstall,
		DownloadSize: size,
		Candidate: &model.Candidate{
			Ref:      ref,
			Filename: name + ".deb",
			Size:     size,
			Hash:     model.Hash{Algo: "sha256", Value: "ab"},
			URIs:     []string{"http://deb.example.org/pool/" + name + ".deb"},
			Trusted:  true,
		},
	}
}

func removeMark(name, version string) *model.MarkedPackage {
	return &model.MarkedPackage{
		Ref:              model.PackageRef{Name: name, Arch: "amd64"},
		Marked:           model.MarkDelete,
		InstalledVersion: version,
	}
}

func okResult(marks ...*model.MarkedPackage) *download.Result {
	res := &download.Result{}
	for _, m := range marks {
		res.Succeeded = append(res.Succeeded, m.Ref)
	}
	return res
}

func TestInstallHappyPath(t *testing.T) {
	h := newHarness(t)
	mark := installMark("htop", "3.2.2-2", 1200)

	h.db.EXPECT().MarkInstall(gomock.Any(), []string{"htop"}).Return(
		[]*model.MarkedPackage{mark}, nil)
	h.confirmer.EXPECT().Confirm("Do you want to continue?").Return(true, nil)
	h.mirrors.EXPECT().Resolve(gomock.Any(), mark.Candidate.URIs, "htop.deb").Return(
		mark.Candidate.URIs, nil)
	h.dl.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Return(okResult(mark), nil)
	h.installer.EXPECT().Apply(gomock.Any(), model.OpInstall, []string{"htop"},
		[]string{"/var/cache/pakt/archives/htop.deb"}, false).Return(nil)
	h.hist.EXPECT().Append(gomock.Any()).DoAndReturn(func(entry *history.Entry) (int, error) {
		assert.Equal(t, model.OpInstall, entry.Operation)
		assert.Equal(t, []string{"install", "htop"}, entry.Command)
		assert.Equal(t, 1, entry.Altered)
		require.Len(t, entry.Installed, 1)
		assert.Equal(t, "htop", entry.Installed[0].Name)
		return 1, nil
	})

	require.NoError(t, h.eng.Install(context.Background(), []string{"htop"}))
}

func TestInstallNothingToDo(t *testing.T) {
	h := newHarness(t)
	h.db.EXPECT().MarkInstall(gomock.Any(), []string{"htop"}).Return(nil, nil)

	err := h.eng.Install(context.Background(), []string{"htop"})
	assert.ErrorIs(t, err, errors.ErrNothingToDo)
}

func TestInstallDeclinedWritesNothing(t *testing.T) {
	h := newHarness(t)
	mark := installMark("htop", "3.2.2-2", 1200)

	h.db.EXPECT().MarkInstall(gomock.Any(), gomock.Any()).Return(
		[]*model.MarkedPackage{mark}, nil)
	h.confirmer.EXPECT().Confirm(gomock.Any()).Return(false, nil)
	// No download, no install, no history.

	err := h.eng.Install(context.Background(), []string{"htop"})
	assert.ErrorIs(t, err, errors.ErrConfirmDeclined)
}

func TestInstallAssumeYesSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AssumeYes = true
	mark := installMark("htop", "3.2.2-2", 1200)

	h.db.EXPECT().MarkInstall(gomock.Any(), gomock.Any()).Return(
		[]*model.MarkedPackage{mark}, nil)
	h.mirrors.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		mark.Candidate.URIs, nil)
	h.dl.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Return(okResult(mark), nil)
	h.installer.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.hist.EXPECT().Append(gomock.Any()).Return(1, nil)

	require.NoError(t, h.eng.Install(context.Background(), []string{"htop"}))
}

func TestInstallUntrustedRejected(t *testing.T) {
	h := newHarness(t)
	mark := installMark("sketchy", "1.0", 100)
	mark.Candidate.Trusted = false

	h.db.EXPECT().MarkInstall(gomock.Any(), gomock.Any()).Return(
		[]*model.MarkedPackage{mark}, nil)

	err := h.eng.Install(context.Background(), []string{"sketchy"})
	assert.ErrorIs(t, err, errors.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "sketchy")
}

func TestInstallUntrustedAllowedByPolicy(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AllowUnauthenticated = true
	h.eng.Policy.AssumeYes = true
	mark := installMark("sketchy", "1.0", 100)
	mark.Candidate.Trusted = false

	h.db.EXPECT().MarkInstall(gomock.Any(), gomock.Any()).Return(
		[]*model.MarkedPackage{mark}, nil)
	h.mirrors.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		mark.Candidate.URIs, nil)
	h.dl.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Return(okResult(mark), nil)
	h.installer.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.hist.EXPECT().Append(gomock.Any()).Return(1, nil)

	require.NoError(t, h.eng.Install(context.Background(), []string{"sketchy"}))
}

func TestMirrorListFailureAbortsBeforeDownload(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AssumeYes = true
	mark := installMark("htop", "3.2.2-2", 1200)
	mark.Candidate.URIs = []string{"mirror://mirrors.example.org/list.txt"}

	h.db.EXPECT().MarkInstall(gomock.Any(), gomock.Any()).Return(
		[]*model.MarkedPackage{mark}, nil)
	h.mirrors.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		nil, errors.ErrMirrorListFetch)
	// No download, no install, no history write.

	err := h.eng.Install(context.Background(), []string{"htop"})
	assert.ErrorIs(t, err, errors.ErrMirrorListFetch)
}

func TestFatalDownloadAborts(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AssumeYes = true
	mark := installMark("htop", "3.2.2-2", 1200)

	h.db.EXPECT().MarkInstall(gomock.Any(), gomock.Any()).Return(
		[]*model.MarkedPackage{mark}, nil)
	h.mirrors.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		mark.Candidate.URIs, nil)
	h.dl.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&download.Result{Failed: []model.PackageRef{mark.Ref}, Fatal: true}, nil)

	err := h.eng.Install(context.Background(), []string{"htop"})
	assert.ErrorIs(t, err, errors.ErrDownloadFailed)
}

func TestNonFatalFailureStillInstalls(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AssumeYes = true
	a := installMark("a", "1.0", 100)
	b := installMark("b", "1.0", 100)

	h.db.EXPECT().MarkInstall(gomock.Any(), gomock.Any()).Return(
		[]*model.MarkedPackage{a, b}, nil)
	h.mirrors.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]string{"http://deb.example.org/x"}, nil).Times(2)
	h.dl.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&download.Result{
			Succeeded: []model.PackageRef{a.Ref},
			Failed:    []model.PackageRef{b.Ref},
		}, nil)
	// The native tool fetches the failed archive itself; only a's archive
	// is passed along.
	h.installer.EXPECT().Apply(gomock.Any(), model.OpInstall, []string{"a", "b"},
		[]string{"/var/cache/pakt/archives/a.deb"}, false).Return(nil)
	h.hist.EXPECT().Append(gomock.Any()).Return(1, nil)

	require.NoError(t, h.eng.Install(context.Background(), []string{"a", "b"}))
}

func TestDownloadOnlySkipsInstallAndHistory(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AssumeYes = true
	h.eng.Policy.DownloadOnly = true
	mark := installMark("htop", "3.2.2-2", 1200)

	h.db.EXPECT().MarkInstall(gomock.Any(), gomock.Any()).Return(
		[]*model.MarkedPackage{mark}, nil)
	h.mirrors.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		mark.Candidate.URIs, nil)
	h.dl.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Return(okResult(mark), nil)
	// No Apply, no Append.

	require.NoError(t, h.eng.Install(context.Background(), []string{"htop"}))
}

func TestRemoveRecordsHistory(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AssumeYes = true
	h.eng.Command = []string{"remove", "mc"}

	h.db.EXPECT().MarkRemove(gomock.Any(), []string{"mc"}, false).Return(
		[]*model.MarkedPackage{removeMark("mc", "4.8.29-2")}, nil)
	h.installer.EXPECT().Apply(gomock.Any(), model.OpRemove, []string{"mc"},
		gomock.Nil(), false).Return(nil)
	h.hist.EXPECT().Append(gomock.Any()).DoAndReturn(func(entry *history.Entry) (int, error) {
		assert.Equal(t, model.OpRemove, entry.Operation)
		require.Len(t, entry.Removed, 1)
		assert.Equal(t, "4.8.29-2", entry.Removed[0].Version)
		return 1, nil
	})

	require.NoError(t, h.eng.Remove(context.Background(), []string{"mc"}))
}

func TestRemoveEssentialRejected(t *testing.T) {
	h := newHarness(t)
	mark := removeMark("bash", "5.2.15-2")
	mark.Essential = true

	h.db.EXPECT().MarkRemove(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]*model.MarkedPackage{mark}, nil)

	err := h.eng.Remove(context.Background(), []string{"bash"})
	assert.ErrorIs(t, err, errors.ErrEssentialRemoval)
}

func TestUpgradeRecordsUpgradeOperation(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AssumeYes = true
	h.eng.Command = []string{"upgrade"}
	mark := installMark("micro", "2.0", 500)
	mark.InstalledVersion = "1.0"

	h.db.EXPECT().MarkUpgrade(gomock.Any(), gomock.Nil()).Return(
		[]*model.MarkedPackage{mark}, nil)
	h.mirrors.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		mark.Candidate.URIs, nil)
	h.dl.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Return(okResult(mark), nil)
	h.installer.EXPECT().Apply(gomock.Any(), model.OpInstall, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.hist.EXPECT().Append(gomock.Any()).DoAndReturn(func(entry *history.Entry) (int, error) {
		assert.Equal(t, model.OpUpgrade, entry.Operation)
		require.Len(t, entry.Upgraded, 1)
		assert.Equal(t, "1.0", entry.Upgraded[0].OldVersion)
		return 1, nil
	})

	require.NoError(t, h.eng.Upgrade(context.Background(), nil))
}

func TestUndoInstallIssuesRemove(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AssumeYes = true

	entry := &history.Entry{
		ID:        1,
		Operation: model.OpInstall,
		Installed: history.ChangeList{{Name: "htop", Version: "3.2.2-2", Size: 1200}},
	}
	h.hist.EXPECT().ResolveID("last").Return(1, nil)
	h.hist.EXPECT().Get(1).Return(entry, nil)
	h.db.EXPECT().MarkRemove(gomock.Any(), []string{"htop"}, false).Return(
		[]*model.MarkedPackage{removeMark("htop", "3.2.2-2")}, nil)
	h.installer.EXPECT().Apply(gomock.Any(), model.OpRemove, []string{"htop"},
		gomock.Nil(), false).Return(nil)
	h.hist.EXPECT().Append(gomock.Any()).Return(2, nil)

	require.NoError(t, h.eng.Undo(context.Background(), "last"))
}

func TestUndoPurgedEntryAsksFirst(t *testing.T) {
	h := newHarness(t)

	entry := &history.Entry{
		ID:        2,
		Operation: model.OpRemove,
		Purged:    true,
		Removed:   history.ChangeList{{Name: "mc", Version: "4.8.29-2", Size: 1000}},
	}
	h.hist.EXPECT().ResolveID("2").Return(2, nil)
	h.hist.EXPECT().Get(2).Return(entry, nil)
	h.confirmer.EXPECT().Confirm("Do you want to continue with purge enabled?").Return(false, nil)
	h.db.EXPECT().MarkInstall(gomock.Any(), []string{"mc"}).Return(
		[]*model.MarkedPackage{installMark("mc", "4.8.29-2", 1000)}, nil)
	h.confirmer.EXPECT().Confirm("Do you want to continue?").Return(true, nil)
	h.mirrors.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]string{"http://deb.example.org/mc.deb"}, nil)
	h.dl.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		okResult(installMark("mc", "4.8.29-2", 1000)), nil)
	h.installer.EXPECT().Apply(gomock.Any(), model.OpInstall, []string{"mc"},
		gomock.Any(), false).Return(nil)
	h.hist.EXPECT().Append(gomock.Any()).Return(3, nil)

	require.NoError(t, h.eng.Undo(context.Background(), "2"))
}

func TestRedoUnsupportedOperation(t *testing.T) {
	h := newHarness(t)
	entry := &history.Entry{ID: 4, Operation: model.OpUpgrade}

	h.hist.EXPECT().ResolveID("4").Return(4, nil)
	h.hist.EXPECT().Get(4).Return(entry, nil)

	err := h.eng.Redo(context.Background(), "4")
	assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)
}

func TestAutoremove(t *testing.T) {
	h := newHarness(t)
	h.eng.Policy.AssumeYes = true
	h.eng.Command = []string{"autoremove"}
	orphan := removeMark("libgpm2", "1.20.7-10")
	orphan.AutoOrphaned = true

	h.db.EXPECT().MarkAutoRemove(gomock.Any()).Return(
		[]*model.MarkedPackage{orphan}, nil)
	h.installer.EXPECT().Apply(gomock.Any(), model.OpRemove, []string{"libgpm2"},
		gomock.Nil(), false).Return(nil)
	h.hist.EXPECT().Append(gomock.Any()).DoAndReturn(func(entry *history.Entry) (int, error) {
		require.Len(t, entry.AutoRemoved, 1)
		assert.Empty(t, entry.Removed)
		return 1, nil
	})

	require.NoError(t, h.eng.Autoremove(context.Background()))
}
