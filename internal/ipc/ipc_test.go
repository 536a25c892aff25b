package ipc

import (
	"path/filepath"
	"testing"
)

func TestCommandRoundTrip(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "tala.sock")

	err := StartServer(sock, func(msg ControlMessage) Reply {
		switch msg.Cmd {
		case "status":
			return Reply{OK: true, Text: "up"}
		default:
			return Reply{OK: false, Text: "unknown command"}
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	rep, err := SendCommand(sock, "status")
	if err != nil {
		t.Fatal(err)
	}
	if !rep.OK || rep.Text != "up" {
		t.Errorf("reply = %+v", rep)
	}

	rep, err = SendCommand(sock, "bogus")
	if err != nil {
		t.Fatal(err)
	}
	if rep.OK {
		t.Error("unknown command must not report ok")
	}
}

func TestSendCommandNoDaemon(t *testing.T) {
	if _, err := SendCommand(filepath.Join(t.TempDir(), "absent.sock"), "status"); err == nil {
		t.Error("want error when the daemon socket is missing")
	}
}
