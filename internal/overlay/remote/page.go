package remote

// pageHTML draws frames on a transparent full-window canvas.
const pageHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>hextech overlay</title>
<style>
html, body { margin: 0; background: transparent; overflow: hidden; }
canvas { position: absolute; left: 0; top: 0; }
</style>
</head>
<body>
<canvas id="overlay"></canvas>
<script>
const canvas = document.getElementById("overlay");
const ctx = canvas.getContext("2d");
const font = "bold 19px 'Microsoft YaHei', sans-serif";
const lineHeight = 24;

function draw(frame) {
  canvas.width = frame.width || window.innerWidth;
  canvas.height = frame.height || window.innerHeight;
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  ctx.font = font;
  ctx.textBaseline = "top";
  for (const label of frame.labels) {
    const lines = label.text.split("\n");
    let x = label.x, y = label.y;
    if (label.center) {
      const w = Math.max(...lines.map(l => ctx.measureText(l).width));
      x -= w / 2;
      y -= lines.length * lineHeight / 2;
    }
    ctx.fillStyle = label.color;
    ctx.lineWidth = 3;
    ctx.strokeStyle = "rgba(0,0,0,0.8)";
    lines.forEach((line, i) => {
      ctx.strokeText(line, x, y + i * lineHeight);
      ctx.fillText(line, x, y + i * lineHeight);
    });
  }
}

function connect() {
  const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = ev => {
    const msg = JSON.parse(ev.data);
    if (msg.type === "frame") draw(msg);
  };
  ws.onclose = () => setTimeout(connect, 1000);
}
connect();
</script>
</body>
</html>
`
