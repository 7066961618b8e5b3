package service

import (
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net/mail"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vshalt/chirp/internal/config"
	"github.com/vshalt/chirp/internal/consts"
)

// ShouldSendEmail 判断当前配置下是否投递邮件。
// 未配置 SMTP 时工作流照常执行，只是不发通知。
func (s *EmailService) ShouldSendEmail() bool {
	return config.Get().SMTP.Host != ""
}

// SendConfirmationEmail 发送注册确认邮件
func (s *EmailService) SendConfirmationEmail(toEmail, username, confirmURL string) error {
	subject := fmt.Sprintf("欢迎注册 %s - 请确认您的账号", consts.ApplicationName)
	fallback := fmt.Sprintf(`
		<h1>欢迎加入 %s</h1>
		<p>请点击链接确认账号: <a href="%s">%s</a></p>
	`, consts.ApplicationName, confirmURL, confirmURL)

	body := s.renderTemplate("confirm-mail.html", fallback, map[string]string{
		"{{username}}":    username,
		"{{confirm_url}}": confirmURL,
	})
	return s.send(toEmail, subject, body)
}

// SendPasswordResetEmail 发送重置密码邮件
func (s *EmailService) SendPasswordResetEmail(toEmail, username, resetURL string) error {
	subject := fmt.Sprintf("%s - 重置密码请求", consts.ApplicationName)
	fallback := fmt.Sprintf(`
		<h1>重置密码 - %s</h1>
		<p>请点击链接重置密码: <a href="%s">%s</a></p>
		<p>如果这不是您本人的操作，请忽略本邮件。</p>
	`, consts.ApplicationName, resetURL, resetURL)

	body := s.renderTemplate("reset-password-mail.html", fallback, map[string]string{
		"{{username}}":  username,
		"{{reset_url}}": resetURL,
	})
	return s.send(toEmail, subject, body)
}

// SendEmailChangeEmail 发送换绑邮箱确认邮件（发往新地址）
func (s *EmailService) SendEmailChangeEmail(toEmail, username, verifyURL string) error {
	subject := fmt.Sprintf("%s - 确认您的新邮箱", consts.ApplicationName)
	fallback := fmt.Sprintf(`
		<h1>确认新邮箱 - %s</h1>
		<p>请点击链接完成邮箱变更: <a href="%s">%s</a></p>
	`, consts.ApplicationName, verifyURL, verifyURL)

	body := s.renderTemplate("email-change-mail.html", fallback, map[string]string{
		"{{username}}":   username,
		"{{verify_url}}": verifyURL,
	})
	return s.send(toEmail, subject, body)
}

// renderTemplate 读取配置目录下的模板文件并做占位符替换，读取失败时使用内置模板
func (s *EmailService) renderTemplate(name, fallback string, replacements map[string]string) string {
	contentBytes, err := os.ReadFile(filepath.Join(config.GetConfigDir(), name))
	if err != nil {
		return fallback
	}
	body := string(contentBytes)
	for placeholder, value := range replacements {
		body = strings.ReplaceAll(body, placeholder, value)
	}
	return body
}

func (s *EmailService) send(toEmail, subject, body string) error {
	cfg := config.Get()
	if cfg.SMTP.Host == "" {
		return nil
	}

	auth := smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)

	fromHeader, fromAddr, err := parseAddressForHeader(cfg.SMTP.From)
	if err != nil {
		return err
	}
	toHeader, toAddr, err := parseAddressForHeader(toEmail)
	if err != nil {
		return err
	}

	msg, err := buildEmailMessage(fromHeader, toHeader, subject, body)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port)

	// 如果配置了 SSL (通常是端口 465)，需要使用 tls 连接
	if cfg.SMTP.SSL {
		return sendMailWithSSL(addr, auth, fromAddr, []string{toAddr}, msg)
	}

	// 默认使用 STARTTLS (通常是端口 587 或 25)
	return smtp.SendMail(addr, auth, fromAddr, []string{toAddr}, msg)
}

func sendMailWithSSL(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	cfg := config.Get()

	// 建立 TLS 连接
	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         cfg.SMTP.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		log.Printf("[Email] TLS 连接失败: %v", err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.SMTP.Host)
	if err != nil {
		log.Printf("[Email] 创建 SMTP 客户端失败: %v", err)
		return err
	}
	defer client.Close()

	// 认证
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err = client.Auth(auth); err != nil {
				log.Printf("[Email] SMTP认证失败: %v", err)
				return err
			}
		}
	}

	// 发送流程
	if err = client.Mail(from); err != nil {
		log.Printf("[Email] MAIL FROM 命令失败: %v", err)
		return err
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			// 不记录具体邮箱地址，防止日志泄露敏感信息
			log.Printf("[Email] RCPT TO 命令失败: %v", err)
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		log.Printf("[Email] DATA 命令失败: %v", err)
		return err
	}
	_, err = w.Write(msg)
	if err != nil {
		log.Printf("[Email] 写入邮件内容失败: %v", err)
		return err
	}
	err = w.Close()
	if err != nil {
		log.Printf("[Email] 关闭 DATA 失败: %v", err)
		return err
	}

	return client.Quit()
}

func parseAddressForHeader(input string) (string, string, error) {
	if err := rejectCRLF(input, "address"); err != nil {
		return "", "", err
	}

	addr, err := mail.ParseAddress(input)
	if err != nil {
		return "", "", err
	}

	headerValue := addr.String()
	if err := rejectCRLF(headerValue, "address"); err != nil {
		return "", "", err
	}

	return headerValue, addr.Address, nil
}

func buildEmailMessage(fromHeader, toHeader, subject, body string) ([]byte, error) {
	if err := rejectCRLF(subject, "subject"); err != nil {
		return nil, err
	}
	// 对 Subject 进行 MIME 编码，防止中文乱码或被拒收
	encodedSubject := mime.BEncoding.Encode("UTF-8", subject)
	// 添加 Date 头
	dateStr := time.Now().Format(time.RFC1123Z)

	header := fmt.Sprintf("Date: %s\r\nFrom: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		dateStr, fromHeader, toHeader, encodedSubject)
	return []byte(header + body), nil
}

func rejectCRLF(value string, field string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("invalid %s header: CRLF not allowed", field)
	}
	return nil
}
