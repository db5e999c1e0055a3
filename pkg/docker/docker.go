// Package docker starts and stops throwaway containers for integration tests.
package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os/exec"
	"strings"
	"time"
)

type Container struct {
	Name     string
	HostPort string
}

type portBinding struct {
	HostIP   string `json:"HostIp"`
	HostPort string `json:"HostPort"`
}

type containerInfo struct {
	NetworkSettings struct {
		Ports map[string][]portBinding `json:"Ports"`
	} `json:"NetworkSettings"`
}

// Spec describes the container to run.
type Spec struct {
	Image string
	Name  string
	//container port to publish, for example "5432".
	Port          string
	DockerArgs    []string
	ContainerArgs []string
}

// StartContainer runs spec, reusing a running container with the same name.
func StartContainer(ctx context.Context, spec Spec) (Container, error) {
	var lastErr error
	//2 retries
	for i := range 2 {
		c, err := startContainer(ctx, spec)
		if err == nil {
			return c, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return Container{}, fmt.Errorf("start %s: %w: %w", spec.Name, ctx.Err(), lastErr)
		case <-time.After(time.Duration(i+1) * 100 * time.Millisecond):
		}
	}

	c, err := startContainer(ctx, spec)
	if err != nil {
		return Container{}, fmt.Errorf("start %s: %w", spec.Name, err)
	}
	return c, nil
}

func StopContainer(ctx context.Context, name string) error {
	if err := exec.CommandContext(ctx, "docker", "stop", name).Run(); err != nil {
		return fmt.Errorf("stop container %s: %w", name, err)
	}

	//remove volumes
	if err := exec.CommandContext(ctx, "docker", "rm", name, "-v").Run(); err != nil {
		return fmt.Errorf("remove container %s: %w", name, err)
	}

	return nil
}

func DumpContainerLogs(ctx context.Context, name string) []byte {
	out, err := exec.CommandContext(ctx, "docker", "logs", name).CombinedOutput()
	if err != nil {
		return nil
	}
	return out
}

func startContainer(ctx context.Context, spec Spec) (Container, error) {
	if c, err := exists(ctx, spec.Name, spec.Port); err == nil {
		return c, nil
	}

	//a stopped container with the same name blocks "docker run"
	_ = exec.CommandContext(ctx, "docker", "rm", spec.Name, "-v").Run()

	args := []string{"run", "-P", "-d", "--name", spec.Name}
	args = append(args, spec.DockerArgs...)
	args = append(args, spec.Image)
	args = append(args, spec.ContainerArgs...)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return Container{}, fmt.Errorf("docker run: %w", err)
	}

	id := strings.TrimSpace(out.String())
	if len(id) > 12 {
		id = id[:12]
	}

	hostIP, hostPort, err := extractIPPort(ctx, id, spec.Port)
	if err != nil {
		_ = StopContainer(ctx, id)
		return Container{}, fmt.Errorf("extract ip port: %w", err)
	}

	return Container{Name: spec.Name, HostPort: net.JoinHostPort(hostIP, hostPort)}, nil
}

func extractIPPort(ctx context.Context, container string, port string) (string, string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "docker", "inspect", container)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", "", fmt.Errorf("docker inspect %s: %w", container, err)
	}

	return parseInspect(out.Bytes(), port)
}

func parseInspect(data []byte, port string) (string, string, error) {
	var infos []containerInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		return "", "", fmt.Errorf("decode inspect output: %w", err)
	}

	if len(infos) == 0 {
		return "", "", fmt.Errorf("no container in inspect output")
	}

	for _, b := range infos[0].NetworkSettings.Ports[port+"/tcp"] {
		//skip IPv6
		if b.HostIP == "::" {
			continue
		}

		hostIP := b.HostIP
		if hostIP == "" || hostIP == "0.0.0.0" {
			hostIP = "localhost"
		}
		return hostIP, b.HostPort, nil
	}

	return "", "", fmt.Errorf("no host binding for port %s", port)
}

func exists(ctx context.Context, name string, port string) (Container, error) {
	hostIP, hostPort, err := extractIPPort(ctx, name, port)
	if err != nil {
		return Container{}, fmt.Errorf("container %s not found: %w", name, err)
	}

	return Container{Name: name, HostPort: net.JoinHostPort(hostIP, hostPort)}, nil
}
